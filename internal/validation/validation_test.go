package validation

import (
	"errors"
	"fmt"
	"testing"
)

type signup struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Plan    string `json:"plan" validate:"oneof=free pro"`
	Comment string `json:"-"`
}

func TestStructReportsFieldMessages(t *testing.T) {
	v := New(map[string]string{
		"name":        "Name is required",
		"email.email": "Please enter a valid email address",
	})

	err := v.Struct(signup{Email: "nope", Plan: "gold"})
	fe, ok := AsFieldErrors(err)
	if !ok {
		t.Fatalf("Expected FieldErrors, got %v", err)
	}

	want := map[string]string{
		"name":  "Name is required",
		"email": "Please enter a valid email address",
		"plan":  "plan must be one of: free pro",
	}
	for field, msg := range want {
		if fe[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, fe[field])
		}
	}
	if len(fe) != len(want) {
		t.Errorf("Expected %d fields, got %v", len(want), fe.Fields())
	}
}

func TestStructValid(t *testing.T) {
	v := New(nil)
	if err := v.Struct(signup{Name: "A", Email: "a@b.co", Plan: "pro"}); err != nil {
		t.Errorf("Expected valid, got %v", err)
	}
}

func TestFieldErrorsWrapping(t *testing.T) {
	var fe FieldErrors
	if fe.OrNil() != nil {
		t.Error("Expected empty FieldErrors to be nil")
	}

	wrapped := fmt.Errorf("save: %w", FieldErrors{"b": "x", "a": "y"})
	got, ok := AsFieldErrors(wrapped)
	if !ok {
		t.Fatal("Expected wrapped FieldErrors to be found")
	}
	if got.Error() != "invalid fields: a, b" {
		t.Errorf("Unexpected message %q", got.Error())
	}

	if _, ok := AsFieldErrors(errors.New("other")); ok {
		t.Error("Expected plain error not to match")
	}
}

func TestTrimStrings(t *testing.T) {
	s := signup{Name: "  Ada ", Email: "\tada@example.com\n"}
	TrimStrings(&s)

	if s.Name != "Ada" || s.Email != "ada@example.com" {
		t.Errorf("Unexpected trimmed struct %+v", s)
	}

	TrimStrings(s)
}
