package validation

import (
	"errors"
	"testing"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(signup{Email: "not-an-email", Password: "short"})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected Errors, got %T", err)
	}

	if _, ok := errs["email"]; !ok {
		t.Fatalf("expected email error, got %v", errs)
	}
	if got := errs["password"]; got != "password must be at least 8 characters and contain a letter and a digit" {
		t.Fatalf("unexpected password message: %q", got)
	}
}

func TestStructRequired(t *testing.T) {
	err := New().Struct(signup{})

	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected Errors, got %v", err)
	}
	if errs["email"] != requiredText || errs["password"] != requiredText {
		t.Fatalf("expected required messages, got %v", errs)
	}
	if err.Error() != "invalid input: email: this field is required; password: this field is required" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestStructValid(t *testing.T) {
	if err := New().Struct(signup{Email: "sam@example.com", Password: "passw0rdX"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
