package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/simulate"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/validation"
)

var testAuthConfig = config.AuthConfig{
	DemoEmail:    "admin@example.com",
	DemoPassword: "password123",
	JWTSecret:    "test-secret",
	TokenTTL:     time.Hour,
}

func newService(t *testing.T) (*Service, *kvstore.Memory) {
	t.Helper()

	creds, err := NewCredentials(testAuthConfig)
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}

	kv := kvstore.NewMemory()
	latency := simulate.None()
	tokens := NewTokenIssuer(testAuthConfig.JWTSecret, testAuthConfig.TokenTTL, latency.Clock())
	return NewService(store.New(kv), tokens, latency, creds, zap.NewNop()), kv
}

func TestLoginWithDemoCredentials(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t)

	s, err := svc.Login(ctx, LoginForm{Email: " Admin@Example.com ", Password: "password123", RememberMe: true})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.IsAuthenticated {
		t.Error("Expected authenticated session")
	}
	if s.Token == "" {
		t.Error("Expected a session token")
	}
	if v, _, _ := kv.Get(ctx, kvstore.KeyRememberMe); v != "true" {
		t.Errorf("Expected rememberMe stored, got %q", v)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t)

	_, err := svc.Login(ctx, LoginForm{Email: "admin@example.com", Password: "wrong-password"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}

	if len(kv.Keys()) != 0 {
		t.Errorf("Expected nothing written, got keys %v", kv.Keys())
	}
}

func TestLoginValidation(t *testing.T) {
	svc, kv := newService(t)

	_, err := svc.Login(context.Background(), LoginForm{Email: "x", Password: "y"})
	fe, ok := validation.AsFieldErrors(err)
	if !ok {
		t.Fatalf("Expected field errors, got %v", err)
	}
	if fe["email"] != "Please enter a valid email address" {
		t.Errorf("Unexpected email message %q", fe["email"])
	}
	if fe["password"] != "Password must be at least 6 characters" {
		t.Errorf("Unexpected password message %q", fe["password"])
	}

	authed, err := svc.IsAuthenticated(context.Background())
	if err != nil {
		t.Fatalf("IsAuthenticated: %v", err)
	}
	if authed {
		t.Error("Expected device to stay signed out")
	}
	if len(kv.Keys()) != 0 {
		t.Errorf("Expected nothing written, got keys %v", kv.Keys())
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t)

	form := RegisterForm{
		FirstName:       "Jane",
		LastName:        "Smith",
		Email:           "jane@example.com",
		Password:        "Secret#2024",
		ConfirmPassword: "Secret#2024",
		AgreeToTerms:    true,
		Newsletter:      true,
	}

	s, err := svc.Register(ctx, form)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !s.IsAuthenticated || s.User == nil || s.User.FirstName != "Jane" {
		t.Errorf("Unexpected session %+v", s)
	}
	if v, _, _ := kv.Get(ctx, kvstore.KeyNewsletterSubscribed); v != "true" {
		t.Errorf("Expected newsletter subscription stored, got %q", v)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), RegisterForm{
		Email:           "jane@example.com",
		Password:        "short",
		ConfirmPassword: "different",
	})
	fe, ok := validation.AsFieldErrors(err)
	if !ok {
		t.Fatalf("Expected field errors, got %v", err)
	}

	want := map[string]string{
		"firstName":       "First name is required",
		"lastName":        "Last name is required",
		"password":        "Password must be at least 8 characters",
		"confirmPassword": "Passwords do not match",
		"agreeToTerms":    "You must agree to the terms and conditions",
	}
	for field, msg := range want {
		if fe[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, fe[field])
		}
	}
	if _, ok := fe["email"]; ok {
		t.Error("Expected valid email to pass")
	}
}

func TestSocialLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	s, err := svc.SocialLogin(ctx, "Google")
	if err != nil {
		t.Fatalf("SocialLogin: %v", err)
	}
	if s.Email != "john.doe@google.com" {
		t.Errorf("Expected john.doe@google.com, got %s", s.Email)
	}
	if s.User == nil || s.User.Provider != "google" {
		t.Errorf("Expected google provider, got %+v", s.User)
	}

	if _, err := svc.SocialLogin(ctx, "myspace"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("Expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestGuestModeAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t)

	if err := svc.ContinueAsGuest(ctx); err != nil {
		t.Fatalf("ContinueAsGuest: %v", err)
	}
	s, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !s.GuestMode || s.IsAuthenticated {
		t.Errorf("Expected unauthenticated guest, got %+v", s)
	}

	if err := kv.Set(ctx, kvstore.KeyCartItems, `[{"id":1,"quantity":1}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := svc.Login(ctx, LoginForm{Email: "admin@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	authed, _ := svc.IsAuthenticated(ctx)
	if authed {
		t.Error("Expected signed out after Logout")
	}
	if _, ok, _ := kv.Get(ctx, kvstore.KeyCartItems); !ok {
		t.Error("Expected cart to survive logout")
	}
}

func TestCurrentReportsTokenExpiry(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t)

	s, err := svc.Login(ctx, LoginForm{Email: "admin@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.ExpiresAt == nil || !s.ExpiresAt.After(time.Now().Add(30*time.Minute)) {
		t.Errorf("Expected expiry about an hour out, got %v", s.ExpiresAt)
	}

	// A token from another client is kept as-is and does not sign the device out.
	if err := kv.Set(ctx, kvstore.KeyUserToken, "mock-jwt-token-1700000000"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s, err = svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !s.IsAuthenticated || s.ExpiresAt != nil {
		t.Errorf("Expected opaque authenticated session, got %+v", s)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	clock := simulate.InstantClock{At: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	issuer := NewTokenIssuer("secret", time.Hour, clock)

	token, err := issuer.Issue("admin@example.com", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("Expected admin@example.com, got %s", claims.Email)
	}

	later := NewTokenIssuer("secret", time.Hour, simulate.InstantClock{At: clock.At.Add(2 * time.Hour)})
	if _, err := later.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected expired token to be rejected, got %v", err)
	}

	other := NewTokenIssuer("other", time.Hour, clock)
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected foreign token to be rejected, got %v", err)
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"", "Weak"},
		{"abc", "Weak"},
		{"abcdefgh", "Medium"},
		{"Abcdefg1", "Strong"},
		{"Abcdef1!", "Strong"},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			if got := PasswordStrength(tt.password).Label; got != tt.want {
				t.Errorf("PasswordStrength(%q) = %s, want %s", tt.password, got, tt.want)
			}
		})
	}
}
