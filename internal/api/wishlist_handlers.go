package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/models"
)

type wishlistRequest struct {
	ProductID models.ProductID `json:"productId"`
}

func (h *Handler) listWishlist(c *gin.Context) {
	items, err := device(c).Wishlist.Items(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, items)
}

func (h *Handler) addToWishlist(c *gin.Context) {
	dev := device(c)

	entry, ok := h.wishlistEntry(c)
	if !ok {
		return
	}

	added, err := dev.Wishlist.Add(c.Request.Context(), entry)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respondJSON(c, status, gin.H{"added": added, "inWishlist": true})
}

func (h *Handler) toggleWishlist(c *gin.Context) {
	dev := device(c)

	entry, ok := h.wishlistEntry(c)
	if !ok {
		return
	}

	present, err := dev.Wishlist.Toggle(c.Request.Context(), entry)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"inWishlist": present})
}

func (h *Handler) removeFromWishlist(c *gin.Context) {
	dev := device(c)
	if err := dev.Wishlist.Remove(c.Request.Context(), models.ProductID(c.Param("id"))); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) moveToCart(c *gin.Context) {
	dev := device(c)
	if err := dev.Wishlist.MoveToCart(c.Request.Context(), models.ProductID(c.Param("id")), dev.Cart); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.cartView(dev))
}

// wishlistEntry builds the entry from the catalog so clients cannot store
// arbitrary names or prices.
func (h *Handler) wishlistEntry(c *gin.Context) (models.WishlistEntry, bool) {
	var req wishlistRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return models.WishlistEntry{}, false
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		h.fail(c, err)
		return models.WishlistEntry{}, false
	}
	return product.WishlistEntry(), true
}
