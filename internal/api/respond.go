package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/account"
	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/pricing"
	"github.com/safar/go-storefront/internal/validation"
	"github.com/safar/go-storefront/internal/wishlist"
)

var (
	errInvalidBody = errors.New("invalid request body")
	errOutOfStock  = errors.New("product is out of stock")
)

func respondJSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func respondError(c *gin.Context, status int, message string) {
	respondJSON(c, status, gin.H{"error": message})
}

// fail maps a domain error to a status. Field errors become 422 with a
// per-field message object.
func (h *Handler) fail(c *gin.Context, err error) {
	if fe, ok := validation.AsFieldErrors(err); ok {
		respondJSON(c, http.StatusUnprocessableEntity, gin.H{
			"error":  "Please correct the highlighted fields",
			"fields": fe,
		})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, status, "Internal server error")
		return
	}
	respondError(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, ErrInvalidDeviceID),
		errors.Is(err, pricing.ErrInvalidPromoCode),
		errors.Is(err, auth.ErrUnsupportedProvider):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, account.ErrAddressNotFound),
		errors.Is(err, account.ErrOrderNotFound),
		errors.Is(err, account.ErrNoProfile),
		errors.Is(err, wishlist.ErrNotInWishlist):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNoTransition),
		errors.Is(err, checkout.ErrSubmitting),
		errors.Is(err, checkout.ErrCompleted),
		errors.Is(err, errOutOfStock):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errInvalidBody
	}
	return nil
}
