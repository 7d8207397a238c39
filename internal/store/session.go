package store

import (
	"context"
	"fmt"

	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/models"
)

type SessionRecord struct {
	Token      string
	Email      string
	User       *models.User
	RememberMe bool
}

// SaveSession marks the device authenticated. All keys go out in one write.
func (r *Repository) SaveSession(ctx context.Context, rec SessionRecord) error {
	entries := map[string]string{
		kvstore.KeyIsAuthenticated: "true",
		kvstore.KeyUserToken:       rec.Token,
		kvstore.KeyUserEmail:       rec.Email,
		kvstore.KeyGuestMode:       "",
	}
	if rec.RememberMe {
		entries[kvstore.KeyRememberMe] = "true"
	}
	if rec.User != nil {
		raw, err := marshalString(rec.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		entries[kvstore.KeyUserData] = raw
	}

	if err := r.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearSession drops the authenticated flag and token. Email, profile,
// cart and wishlist survive a logout.
func (r *Repository) ClearSession(ctx context.Context) error {
	err := r.kv.SetMany(ctx, map[string]string{
		kvstore.KeyIsAuthenticated: "",
		kvstore.KeyUserToken:       "",
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *Repository) LoadSession(ctx context.Context) (models.Session, error) {
	var s models.Session

	authed, err := r.getFlag(ctx, kvstore.KeyIsAuthenticated)
	if err != nil {
		return s, err
	}
	s.IsAuthenticated = authed

	if s.GuestMode, err = r.getFlag(ctx, kvstore.KeyGuestMode); err != nil {
		return s, err
	}

	if !authed {
		return s, nil
	}

	if s.Token, _, err = r.kv.Get(ctx, kvstore.KeyUserToken); err != nil {
		return s, fmt.Errorf("load token: %w", err)
	}
	if s.Email, _, err = r.kv.Get(ctx, kvstore.KeyUserEmail); err != nil {
		return s, fmt.Errorf("load email: %w", err)
	}

	user, err := r.LoadUser(ctx)
	if err != nil {
		return s, err
	}
	s.User = user

	return s, nil
}

func (r *Repository) IsAuthenticated(ctx context.Context) (bool, error) {
	return r.getFlag(ctx, kvstore.KeyIsAuthenticated)
}

func (r *Repository) LoadUser(ctx context.Context) (*models.User, error) {
	var u models.User
	ok, err := r.getJSON(ctx, kvstore.KeyUserData, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) SaveUser(ctx context.Context, u models.User) error {
	return r.setJSON(ctx, kvstore.KeyUserData, u)
}

func (r *Repository) SetGuestMode(ctx context.Context, on bool) error {
	return r.setFlag(ctx, kvstore.KeyGuestMode, on)
}

func (r *Repository) SetNewsletter(ctx context.Context, on bool) error {
	return r.setFlag(ctx, kvstore.KeyNewsletterSubscribed, on)
}

func (r *Repository) Newsletter(ctx context.Context) (bool, error) {
	return r.getFlag(ctx, kvstore.KeyNewsletterSubscribed)
}
