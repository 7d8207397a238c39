package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/simulate"
)

func (h *Handler) listProducts(c *gin.Context) {
	q := catalog.Query{
		Search:     c.Query("search"),
		Categories: queryList(c, "category"),
		Brands:     queryList(c, "brand"),
		Ratings:    queryList(c, "rating"),
		Features:   queryList(c, "feature"),
		Sort:       c.Query("sort"),
	}
	q.Page, _ = strconv.Atoi(c.Query("page"))
	q.PageSize, _ = strconv.Atoi(c.Query("page_size"))

	// Unparsable bounds are treated as absent, like an empty price input.
	if d, err := decimal.NewFromString(c.Query("min_price")); err == nil {
		q.PriceMin = &d
	}
	if d, err := decimal.NewFromString(c.Query("max_price")); err == nil {
		q.PriceMax = &d
	}

	if err := h.latency.Wait(c.Request.Context(), simulate.OpList); err != nil {
		h.fail(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.catalog.Search(q))
}

func (h *Handler) productFacets(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{
		"categories": h.catalog.Categories(),
		"brands":     h.catalog.Brands(),
		"sizes":      catalog.Sizes(),
		"sorts": []string{
			catalog.SortPriceLow, catalog.SortPriceHigh, catalog.SortRating,
			catalog.SortNewest, catalog.SortBest, catalog.SortNameAZ, catalog.SortNameZA,
		},
	})
}

func (h *Handler) getProduct(c *gin.Context) {
	dev := device(c)
	id := models.ProductID(c.Param("id"))

	product, err := h.catalog.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.catalog.RecordView(c.Request.Context(), dev.Repo, id); err != nil {
		h.fail(c, err)
		return
	}

	inWishlist, err := dev.Wishlist.Contains(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"product":         product,
		"inWishlist":      inWishlist,
		"requiresOptions": catalog.RequiresOptions(product),
	})
}

func (h *Handler) recentlyViewed(c *gin.Context) {
	products, err := h.catalog.RecentlyViewed(c.Request.Context(), device(c).Repo)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, products)
}

// queryList accepts both repeated parameters and comma-separated values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
