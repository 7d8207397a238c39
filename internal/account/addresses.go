// Package account backs the customer dashboard: saved addresses, the
// profile record and order history.
package account

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/validation"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressRepository interface {
	LoadAddresses(ctx context.Context) ([]models.Address, error)
	SaveAddresses(ctx context.Context, addrs []models.Address) error
}

var addressValidator = validation.New(map[string]string{
	"type":    "Please choose an address type",
	"name":    "Name is required",
	"street":  "Street address is required",
	"city":    "City is required",
	"state":   "State is required",
	"zipCode": "ZIP code is required",
	"country": "Country is required",
})

// AddressBook keeps at most one default address. Every change rewrites the
// whole set in a single save.
type AddressBook struct {
	mu   sync.Mutex
	repo AddressRepository
}

func NewAddressBook(repo AddressRepository) *AddressBook {
	return &AddressBook{repo: repo}
}

func (b *AddressBook) List(ctx context.Context) ([]models.Address, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	addrs, err := b.repo.LoadAddresses(ctx)
	if err != nil {
		return nil, err
	}
	if addrs == nil {
		addrs = []models.Address{}
	}
	return addrs, nil
}

// Add stores a new address. The first address saved becomes the default.
func (b *AddressBook) Add(ctx context.Context, addr models.Address) (models.Address, error) {
	validation.TrimStrings(&addr)
	if err := addressValidator.Struct(addr); err != nil {
		return models.Address{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	addrs, err := b.repo.LoadAddresses(ctx)
	if err != nil {
		return models.Address{}, err
	}

	addr.ID = uuid.NewString()
	if len(addrs) == 0 {
		addr.IsDefault = true
	}
	addrs = append(addrs, addr)
	if addr.IsDefault {
		addrs = withDefault(addrs, addr.ID)
	}

	if err := b.repo.SaveAddresses(ctx, addrs); err != nil {
		return models.Address{}, fmt.Errorf("add address: %w", err)
	}
	return addr, nil
}

// Update replaces the address fields. It can make the address the default
// but never clears the flag; the default moves only through SetDefault.
func (b *AddressBook) Update(ctx context.Context, id string, addr models.Address) (models.Address, error) {
	validation.TrimStrings(&addr)
	if err := addressValidator.Struct(addr); err != nil {
		return models.Address{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	addrs, err := b.repo.LoadAddresses(ctx)
	if err != nil {
		return models.Address{}, err
	}

	i := indexOf(addrs, id)
	if i < 0 {
		return models.Address{}, ErrAddressNotFound
	}

	addr.ID = id
	addr.IsDefault = addr.IsDefault || addrs[i].IsDefault
	addrs[i] = addr
	if addr.IsDefault {
		addrs = withDefault(addrs, id)
	}

	if err := b.repo.SaveAddresses(ctx, addrs); err != nil {
		return models.Address{}, fmt.Errorf("update address %s: %w", id, err)
	}
	return addr, nil
}

// Delete removes the address. Deleting the default leaves no default.
func (b *AddressBook) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	addrs, err := b.repo.LoadAddresses(ctx)
	if err != nil {
		return err
	}

	i := indexOf(addrs, id)
	if i < 0 {
		return ErrAddressNotFound
	}
	addrs = append(addrs[:i], addrs[i+1:]...)

	if err := b.repo.SaveAddresses(ctx, addrs); err != nil {
		return fmt.Errorf("delete address %s: %w", id, err)
	}
	return nil
}

// SetDefault marks id as the only default.
func (b *AddressBook) SetDefault(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	addrs, err := b.repo.LoadAddresses(ctx)
	if err != nil {
		return err
	}
	if indexOf(addrs, id) < 0 {
		return ErrAddressNotFound
	}

	if err := b.repo.SaveAddresses(ctx, withDefault(addrs, id)); err != nil {
		return fmt.Errorf("set default address %s: %w", id, err)
	}
	return nil
}

func withDefault(addrs []models.Address, id string) []models.Address {
	for i := range addrs {
		addrs[i].IsDefault = addrs[i].ID == id
	}
	return addrs
}

func indexOf(addrs []models.Address, id string) int {
	for i := range addrs {
		if addrs[i].ID == id {
			return i
		}
	}
	return -1
}
