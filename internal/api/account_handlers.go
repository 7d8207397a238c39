package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/account"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/pricing"
)

type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) getProfile(c *gin.Context) {
	u, err := device(c).Profile.Get(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, u)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req account.ProfileUpdate
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	u, err := device(c).Profile.Update(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, u)
}

func (h *Handler) setNewsletter(c *gin.Context) {
	var req toggleRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	if err := device(c).Profile.SetNewsletter(c.Request.Context(), req.Enabled); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"newsletterSubscribed": req.Enabled})
}

func (h *Handler) setTwoFactor(c *gin.Context) {
	var req toggleRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	u, err := device(c).Profile.SetTwoFactor(c.Request.Context(), req.Enabled)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, u)
}

func (h *Handler) changePassword(c *gin.Context) {
	var req account.PasswordChange
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	if err := device(c).Profile.ChangePassword(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *Handler) listOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	result, err := device(c).Orders.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	for i := range result.Items {
		result.Items[i].Totals = pricing.Rounded(result.Items[i].Totals)
	}
	respondJSON(c, http.StatusOK, result)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := device(c).Orders.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.fail(c, err)
		return
	}
	order.Totals = pricing.Rounded(order.Totals)
	respondJSON(c, http.StatusOK, order)
}

func (h *Handler) accountStats(c *gin.Context) {
	stats, err := device(c).Orders.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	stats.TotalSpent = pricing.Round(stats.TotalSpent)
	respondJSON(c, http.StatusOK, stats)
}

func (h *Handler) listAddresses(c *gin.Context) {
	addrs, err := device(c).Addresses.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, addrs)
}

func (h *Handler) addAddress(c *gin.Context) {
	var req models.Address
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	addr, err := device(c).Addresses.Add(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, addr)
}

func (h *Handler) updateAddress(c *gin.Context) {
	var req models.Address
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	addr, err := device(c).Addresses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, addr)
}

func (h *Handler) deleteAddress(c *gin.Context) {
	if err := device(c).Addresses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) setDefaultAddress(c *gin.Context) {
	dev := device(c)
	if err := dev.Addresses.SetDefault(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.listAddresses(c)
}
