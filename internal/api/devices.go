package api

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/account"
	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/pricing"
	"github.com/safar/go-storefront/internal/simulate"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/wishlist"
)

const (
	DeviceHeader  = "X-Device-ID"
	DefaultDevice = "local"
)

var ErrInvalidDeviceID = errors.New("invalid device id")

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Device bundles one browser's services over its slice of the store.
type Device struct {
	ID        string
	Repo      *store.Repository
	Cart      *cart.Ledger
	Checkout  *checkout.Wizard
	Auth      *auth.Service
	Wishlist  *wishlist.Wishlist
	Addresses *account.AddressBook
	Profile   *account.Profile
	Orders    *account.OrderHistory

	// Latency tracks this device's in-flight operations only.
	Latency *simulate.Latency
}

type DeviceDeps struct {
	Engine      *pricing.Engine
	Latency     *simulate.Latency
	Tokens      *auth.TokenIssuer
	Credentials auth.Credentials
	Publisher   checkout.OrderPublisher
	Logger      *zap.Logger
}

// Devices lazily opens a Device per id. Services are built once and reused
// so each device's operations are serialised by the same mutexes.
type Devices struct {
	kv   kvstore.Store
	deps DeviceDeps

	mu      sync.Mutex
	devices map[string]*Device
}

func NewDevices(kv kvstore.Store, deps DeviceDeps) *Devices {
	return &Devices{kv: kv, deps: deps, devices: make(map[string]*Device)}
}

func (d *Devices) Get(ctx context.Context, id string) (*Device, error) {
	if !deviceIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeviceID, id)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if dev, ok := d.devices[id]; ok {
		return dev, nil
	}

	dev, err := d.open(ctx, id)
	if err != nil {
		return nil, err
	}
	d.devices[id] = dev
	return dev, nil
}

// Repository returns the typed store for id without opening services.
func (d *Devices) Repository(id string) (*store.Repository, error) {
	if !deviceIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeviceID, id)
	}
	return store.New(kvstore.WithNamespace(d.kv, id)), nil
}

func (d *Devices) open(ctx context.Context, id string) (*Device, error) {
	logger := d.deps.Logger.With(zap.String("device_id", id))
	repo := store.New(kvstore.WithNamespace(d.kv, id))

	if fixed, err := repo.ReconcileCartCount(ctx); err != nil {
		return nil, fmt.Errorf("open device %s: %w", id, err)
	} else if fixed {
		logger.Warn("cart count repaired")
	}

	ledger, err := cart.Open(ctx, repo, logger)
	if err != nil {
		return nil, fmt.Errorf("open device %s: %w", id, err)
	}
	latency := d.deps.Latency.Scoped()

	return &Device{
		ID:        id,
		Repo:      repo,
		Cart:      ledger,
		Checkout:  checkout.New(id, ledger, d.deps.Engine, latency, d.deps.Publisher, d.deps.Logger),
		Auth:      auth.NewService(repo, d.deps.Tokens, latency, d.deps.Credentials, logger),
		Wishlist:  wishlist.New(repo, logger),
		Addresses: account.NewAddressBook(repo),
		Profile:   account.NewProfile(repo),
		Orders:    account.NewOrderHistory(repo),
		Latency:   latency,
	}, nil
}
