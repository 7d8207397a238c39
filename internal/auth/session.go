// Package auth owns the device's authentication state: login against the
// demo credential, registration, social sign-in, guest mode and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/simulate"
	"github.com/safar/go-storefront/internal/store"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnsupportedProvider = errors.New("unsupported social provider")
)

// SocialProviders lists the sign-in buttons the storefront offers.
var SocialProviders = []string{"google", "facebook", "apple"}

type Repository interface {
	SaveSession(ctx context.Context, rec store.SessionRecord) error
	ClearSession(ctx context.Context) error
	LoadSession(ctx context.Context) (models.Session, error)
	IsAuthenticated(ctx context.Context) (bool, error)
	SetGuestMode(ctx context.Context, on bool) error
	SetNewsletter(ctx context.Context, on bool) error
}

type Service struct {
	repo      Repository
	tokens    *TokenIssuer
	latency   *simulate.Latency
	demoEmail string
	demoHash  []byte
	logger    *zap.Logger
}

// Credentials holds the single accepted demo login, with the password kept
// only as a bcrypt hash.
type Credentials struct {
	Email string
	Hash  []byte
}

func NewCredentials(cfg config.AuthConfig) (Credentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return Credentials{}, fmt.Errorf("hash demo password: %w", err)
	}
	return Credentials{Email: cfg.DemoEmail, Hash: hash}, nil
}

func NewService(repo Repository, tokens *TokenIssuer, latency *simulate.Latency, creds Credentials, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		latency:   latency,
		demoEmail: creds.Email,
		demoHash:  creds.Hash,
		logger:    logger.Named("auth"),
	}
}

// Login checks form against the demo credential after the simulated round
// trip. A mismatch writes nothing.
func (s *Service) Login(ctx context.Context, form LoginForm) (models.Session, error) {
	if err := ValidateLogin(&form); err != nil {
		return models.Session{}, err
	}

	if err := s.latency.Wait(ctx, simulate.OpLogin); err != nil {
		return models.Session{}, err
	}

	if !s.matches(form.Email, form.Password) {
		s.logger.Info("login rejected", zap.String("email", form.Email))
		return models.Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(form.Email, "")
	if err != nil {
		return models.Session{}, err
	}

	err = s.repo.SaveSession(ctx, store.SessionRecord{
		Token:      token,
		Email:      form.Email,
		RememberMe: form.RememberMe,
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	s.logger.Info("login succeeded", zap.String("email", form.Email))
	return s.Current(ctx)
}

func (s *Service) Register(ctx context.Context, form RegisterForm) (models.Session, error) {
	if err := ValidateRegister(&form); err != nil {
		return models.Session{}, err
	}

	if err := s.latency.Wait(ctx, simulate.OpRegister); err != nil {
		return models.Session{}, err
	}

	user := models.User{
		ID:                   uuid.NewString(),
		FirstName:            form.FirstName,
		LastName:             form.LastName,
		Email:                form.Email,
		NewsletterSubscribed: form.Newsletter,
		CreatedAt:            s.latency.Clock().Now(),
	}

	if err := s.signIn(ctx, user, ""); err != nil {
		return models.Session{}, fmt.Errorf("register: %w", err)
	}

	if form.Newsletter {
		if err := s.repo.SetNewsletter(ctx, true); err != nil {
			return models.Session{}, fmt.Errorf("register: %w", err)
		}
	}

	s.logger.Info("account registered", zap.String("user_id", user.ID))
	return s.Current(ctx)
}

// SocialLogin always succeeds for a known provider with a synthesized
// John Doe profile.
func (s *Service) SocialLogin(ctx context.Context, provider string) (models.Session, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !isSupportedProvider(provider) {
		return models.Session{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	if err := s.latency.Wait(ctx, simulate.OpSocial); err != nil {
		return models.Session{}, err
	}

	user := models.User{
		ID:        uuid.NewString(),
		FirstName: "John",
		LastName:  "Doe",
		Email:     fmt.Sprintf("john.doe@%s.com", provider),
		Provider:  provider,
		CreatedAt: s.latency.Clock().Now(),
	}

	if err := s.signIn(ctx, user, provider); err != nil {
		return models.Session{}, fmt.Errorf("social login: %w", err)
	}

	s.logger.Info("social login succeeded", zap.String("provider", provider))
	return s.Current(ctx)
}

// ContinueAsGuest flags the device for guest checkout. It does not
// authenticate.
func (s *Service) ContinueAsGuest(ctx context.Context) error {
	return s.repo.SetGuestMode(ctx, true)
}

// Logout clears the flag and token. Cart, wishlist and profile stay.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.repo.ClearSession(ctx); err != nil {
		return err
	}
	s.logger.Info("logged out")
	return nil
}

// Current loads the device's session. Tokens written by other clients stay
// opaque; only the persisted flag decides whether the session is signed in.
func (s *Service) Current(ctx context.Context) (models.Session, error) {
	sess, err := s.repo.LoadSession(ctx)
	if err != nil || sess.Token == "" {
		return sess, err
	}

	if claims, err := s.tokens.Parse(sess.Token); err == nil && claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		sess.ExpiresAt = &exp
	}
	return sess, nil
}

func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.repo.IsAuthenticated(ctx)
}

func (s *Service) signIn(ctx context.Context, user models.User, provider string) error {
	token, err := s.tokens.Issue(user.Email, provider)
	if err != nil {
		return err
	}
	return s.repo.SaveSession(ctx, store.SessionRecord{
		Token: token,
		Email: user.Email,
		User:  &user,
	})
}

func (s *Service) matches(email, password string) bool {
	if !strings.EqualFold(email, s.demoEmail) {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.demoHash, []byte(password)) == nil
}

func isSupportedProvider(provider string) bool {
	for _, p := range SocialProviders {
		if p == provider {
			return true
		}
	}
	return false
}
