package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/validation"
)

var ErrNoProfile = errors.New("no profile on this device")

type ProfileRepository interface {
	LoadUser(ctx context.Context) (*models.User, error)
	SaveUser(ctx context.Context, u models.User) error
	LoadSession(ctx context.Context) (models.Session, error)
	SetNewsletter(ctx context.Context, on bool) error
}

type ProfileUpdate struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

var profileValidator = validation.New(map[string]string{
	"firstName":      "First name is required",
	"lastName":       "Last name is required",
	"email.required": "Email is required",
	"email.email":    "Please enter a valid email address",
})

var passwordValidator = validation.New(map[string]string{
	"currentPassword":      "Current password is required",
	"newPassword.required": "New password is required",
	"newPassword.min":      "Password must be at least 8 characters",
	"confirmPassword":      "Passwords do not match",
})

type Profile struct {
	repo ProfileRepository
}

func NewProfile(repo ProfileRepository) *Profile {
	return &Profile{repo: repo}
}

// Get returns the stored profile. A device that logged in with the demo
// credential has no userData yet, so a minimal record is derived from the
// session email.
func (p *Profile) Get(ctx context.Context) (models.User, error) {
	u, err := p.repo.LoadUser(ctx)
	if err != nil {
		return models.User{}, err
	}
	if u != nil {
		return *u, nil
	}

	sess, err := p.repo.LoadSession(ctx)
	if err != nil {
		return models.User{}, err
	}
	if sess.Email == "" {
		return models.User{}, ErrNoProfile
	}

	name := sess.Email
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}
	return models.User{FirstName: name, Email: sess.Email}, nil
}

func (p *Profile) Update(ctx context.Context, upd ProfileUpdate) (models.User, error) {
	validation.TrimStrings(&upd)
	if err := profileValidator.Struct(upd); err != nil {
		return models.User{}, err
	}

	u, err := p.Get(ctx)
	if err != nil && !errors.Is(err, ErrNoProfile) {
		return models.User{}, err
	}

	u.FirstName = upd.FirstName
	u.LastName = upd.LastName
	u.Email = upd.Email
	u.Phone = upd.Phone

	if err := p.repo.SaveUser(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (p *Profile) SetTwoFactor(ctx context.Context, on bool) (models.User, error) {
	u, err := p.Get(ctx)
	if err != nil {
		return models.User{}, err
	}

	u.TwoFactorEnabled = on
	if err := p.repo.SaveUser(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("set two-factor: %w", err)
	}
	return u, nil
}

// SetNewsletter updates both the flag key and the profile copy.
func (p *Profile) SetNewsletter(ctx context.Context, on bool) error {
	if err := p.repo.SetNewsletter(ctx, on); err != nil {
		return err
	}

	u, err := p.repo.LoadUser(ctx)
	if err != nil || u == nil {
		return err
	}
	u.NewsletterSubscribed = on
	return p.repo.SaveUser(ctx, *u)
}

// ChangePassword only validates the form. There is no credential store to
// update.
func (p *Profile) ChangePassword(_ context.Context, change PasswordChange) error {
	return passwordValidator.Struct(change)
}
