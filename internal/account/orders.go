package account

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	LoadOrders(ctx context.Context) ([]models.Order, error)
	AppendOrder(ctx context.Context, order models.Order) error
	LoadWishlist(ctx context.Context) ([]models.WishlistEntry, error)
}

type Stats struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	WishlistItems int             `json:"wishlistItems"`
	RewardPoints  int64           `json:"rewardPoints"`
}

type OrderHistory struct {
	repo OrderRepository
}

func NewOrderHistory(repo OrderRepository) *OrderHistory {
	return &OrderHistory{repo: repo}
}

// List returns orders newest first.
func (h *OrderHistory) List(ctx context.Context, page, pageSize int) (store.OffsetPage[models.Order], error) {
	orders, err := h.repo.LoadOrders(ctx)
	if err != nil {
		return store.OffsetPage[models.Order]{}, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return store.Paginate(orders, page, pageSize), nil
}

// Get looks an order up by id or by order number.
func (h *OrderHistory) Get(ctx context.Context, ref string) (models.Order, error) {
	orders, err := h.repo.LoadOrders(ctx)
	if err != nil {
		return models.Order{}, err
	}

	for _, o := range orders {
		if o.ID == ref || o.OrderNumber == ref {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// Stats earns one reward point per whole dollar spent.
func (h *OrderHistory) Stats(ctx context.Context) (Stats, error) {
	orders, err := h.repo.LoadOrders(ctx)
	if err != nil {
		return Stats{}, err
	}
	wishlist, err := h.repo.LoadWishlist(ctx)
	if err != nil {
		return Stats{}, err
	}

	spent := decimal.Zero
	for _, o := range orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		spent = spent.Add(o.Total)
	}

	return Stats{
		TotalOrders:   len(orders),
		TotalSpent:    spent,
		WishlistItems: len(wishlist),
		RewardPoints:  spent.IntPart(),
	}, nil
}

// Recorder appends placed orders to the owning device's history.
type Recorder struct {
	repoFor func(deviceID string) (OrderRepository, error)
	logger  *zap.Logger
}

func NewRecorder(repoFor func(deviceID string) (OrderRepository, error), logger *zap.Logger) *Recorder {
	return &Recorder{repoFor: repoFor, logger: logger.Named("order_recorder")}
}

func (r *Recorder) HandleOrderPlaced(ctx context.Context, evt events.OrderPlaced) error {
	repo, err := r.repoFor(evt.DeviceID)
	if err != nil {
		return err
	}

	if err := repo.AppendOrder(ctx, evt.Order); err != nil {
		return err
	}

	r.logger.Info("order recorded",
		zap.String("device_id", evt.DeviceID),
		zap.String("order_number", evt.Order.OrderNumber))
	return nil
}
