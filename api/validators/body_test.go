package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
)

type signupBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"ada@example.com","password":"correct-horse"}`))

	var body signupBody
	if err := DecodeJSONBody(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Email != "ada@example.com" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"ada@example.com","password":"correct-horse","admin":true}`))

	var body signupBody
	err := DecodeJSONBody(r, &body)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyUsesJSONFieldNames(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email","password":"short"}`))

	var body signupBody
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details shape: %#v", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Errorf("email detail = %q", details["email"])
	}
	if details["password"] != "must be at least 8" {
		t.Errorf("password detail = %q", details["password"])
	}
}

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/?limit=40", nil)
	got, err := ParseQueryInt(r, "limit", 25, 1, 100)
	if err != nil || got != 40 {
		t.Fatalf("got %d, %v", got, err)
	}

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(r, "limit", 25, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("expected default, got %d, %v", got, err)
	}

	for _, query := range []string{"limit=abc", "limit=0", "limit=101"} {
		r = httptest.NewRequest("GET", "/?"+query, nil)
		if _, err := ParseQueryInt(r, "limit", 25, 1, 100); err == nil {
			t.Errorf("expected error for %q", query)
		}
	}
}
