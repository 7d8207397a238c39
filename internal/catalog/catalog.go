// Package catalog serves the read-only product list with the browse page's
// search, filter and sort semantics.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

var ErrProductNotFound = errors.New("product not found")

const RecentlyViewedLimit = 4

const (
	SortRelevance = ""
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"
	SortBest      = "bestseller"
	SortNameAZ    = "name-az"
	SortNameZA    = "name-za"
)

const (
	FeatureFreeShipping = "free-shipping"
	FeatureOnSale       = "on-sale"
	FeatureNewArrivals  = "new-arrivals"
	FeatureBestseller   = "bestseller"
)

// bestsellerReviews is the review count a product must exceed to count as
// a bestseller.
const bestsellerReviews = 1000

type Query struct {
	Search     string
	Categories []string
	Brands     []string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Ratings    []string
	Features   []string
	Sort       string
	Page       int
	PageSize   int
}

type ViewRepository interface {
	LoadRecentlyViewed(ctx context.Context) ([]models.ProductID, error)
	SaveRecentlyViewed(ctx context.Context, ids []models.ProductID) error
}

type Catalog struct {
	products []models.Product
	byID     map[models.ProductID]int
}

func New(products []models.Product) *Catalog {
	c := &Catalog{products: products, byID: make(map[models.ProductID]int, len(products))}
	for i, p := range products {
		c.byID[p.ID] = i
	}
	return c
}

func (c *Catalog) Get(id models.ProductID) (models.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return c.products[i], nil
}

func (c *Catalog) Search(q Query) store.OffsetPage[models.Product] {
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if q.matches(p) {
			out = append(out, p)
		}
	}

	sortProducts(out, q.Sort)
	return store.Paginate(out, q.Page, q.PageSize)
}

// Categories and Brands list the facet values in first-seen order.
func (c *Catalog) Categories() []string {
	return c.facet(func(p models.Product) string { return p.Category })
}

func (c *Catalog) Brands() []string {
	return c.facet(func(p models.Product) string { return strings.ToLower(p.Brand) })
}

func (c *Catalog) facet(key func(models.Product) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		k := key(p)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// RecordView moves id to the front of the recently viewed list, keeping
// the newest RecentlyViewedLimit entries.
func (c *Catalog) RecordView(ctx context.Context, repo ViewRepository, id models.ProductID) error {
	if _, err := c.Get(id); err != nil {
		return err
	}

	ids, err := repo.LoadRecentlyViewed(ctx)
	if err != nil {
		return err
	}

	next := []models.ProductID{id}
	for _, v := range ids {
		if v != id && len(next) < RecentlyViewedLimit {
			next = append(next, v)
		}
	}
	return repo.SaveRecentlyViewed(ctx, next)
}

// RecentlyViewed resolves the stored ids, skipping any no longer listed.
func (c *Catalog) RecentlyViewed(ctx context.Context, repo ViewRepository) ([]models.Product, error) {
	ids, err := repo.LoadRecentlyViewed(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, err := c.Get(id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (q Query) matches(p models.Product) bool {
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		if !strings.Contains(strings.ToLower(p.Name), s) && !strings.Contains(strings.ToLower(p.Brand), s) {
			return false
		}
	}

	if len(q.Categories) > 0 && !contains(q.Categories, p.Category) {
		return false
	}
	if len(q.Brands) > 0 && !contains(q.Brands, strings.ToLower(p.Brand)) {
		return false
	}

	if q.PriceMin != nil && p.Price.LessThan(*q.PriceMin) {
		return false
	}
	if q.PriceMax != nil && p.Price.GreaterThan(*q.PriceMax) {
		return false
	}

	if lowest, ok := minRating(q.Ratings); ok && p.Rating < float64(lowest) {
		return false
	}

	for _, f := range q.Features {
		if !hasFeature(p, f) {
			return false
		}
	}
	return true
}

// minRating is the lowest selected star filter; unparsable values are
// ignored.
func minRating(ratings []string) (int, bool) {
	lowest, found := 0, false
	for _, r := range ratings {
		n, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			continue
		}
		if !found || n < lowest {
			lowest, found = n, true
		}
	}
	return lowest, found
}

func hasFeature(p models.Product, feature string) bool {
	switch feature {
	case FeatureFreeShipping:
		return p.FreeShipping
	case FeatureOnSale:
		return p.IsOnSale
	case FeatureNewArrivals:
		return p.IsNew
	case FeatureBestseller:
		return p.ReviewCount > bestsellerReviews
	default:
		return true
	}
}

func sortProducts(products []models.Product, key string) {
	var less func(a, b models.Product) bool
	switch key {
	case SortPriceLow:
		less = func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b models.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b models.Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b models.Product) bool { return a.IsNew && !b.IsNew }
	case SortBest:
		less = func(a, b models.Product) bool { return a.ReviewCount > b.ReviewCount }
	case SortNameAZ:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortNameZA:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	default:
		return
	}

	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
