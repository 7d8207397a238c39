// Package kvstore is the flat, string-keyed persistence substrate every
// storefront record lives in. Values are opaque strings; callers own the
// serialization.
package kvstore

import (
	"context"
	"errors"
)

// Persisted keys. The layout matches what the storefront frontend already
// writes, so existing device data stays readable.
const (
	KeyCartItems            = "cartItems"
	KeyCartCount            = "cartCount"
	KeyWishlist             = "wishlist"
	KeyWishlistItems        = "wishlistItems"
	KeyIsAuthenticated      = "isAuthenticated"
	KeyUserToken            = "userToken"
	KeyUserEmail            = "userEmail"
	KeyUserData             = "userData"
	KeyRememberMe           = "rememberMe"
	KeyNewsletterSubscribed = "newsletterSubscribed"
	KeyGuestMode            = "isGuestMode"
	KeyAddresses            = "addresses"
	KeyOrders               = "orders"
	KeyRecentlyViewed       = "recentlyViewed"
)

var ErrEmptyKey = errors.New("empty key")

// Store is a synchronous key-value accessor. Every Set is a full replace of
// the key; concurrent writers get last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// SetMany applies every entry as one write where the backend supports
	// it. An empty value removes the key.
	SetMany(ctx context.Context, entries map[string]string) error
	Close() error
}
