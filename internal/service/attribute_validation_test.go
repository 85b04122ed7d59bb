package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidateAttributeName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantField string
	}{
		{"valid", "Dessert", "Dessert", ""},
		{"trimmed", "  Dessert  ", "Dessert", ""},
		{"empty", "", "", "name"},
		{"whitespace_only", "   ", "", "name"},
		{"too_long", strings.Repeat("a", maxAttributeNameLength+1), "", "name"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := validateAttributeName(test.input)
			if test.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != test.want {
					t.Fatalf("expected %q, got %q", test.want, got)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if validationErr.Field != test.wantField {
				t.Fatalf("expected field %q, got %q", test.wantField, validationErr.Field)
			}
		})
	}
}

func TestCreateTagValidationErrors(t *testing.T) {
	svc := &AttributeService{}

	// Validation runs before any repository access, so a zero-value
	// service is enough here.
	_, err := svc.CreateTag(context.Background(), CreateAttributeInput{
		Name:    "",
		OwnerID: "user123",
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Field != "name" {
		t.Fatalf("expected field name, got %q", validationErr.Field)
	}
}

func TestCreateIngredientValidationErrors(t *testing.T) {
	svc := &AttributeService{}

	_, err := svc.CreateIngredient(context.Background(), CreateAttributeInput{
		Name:    "   ",
		OwnerID: "user123",
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Field != "name" {
		t.Fatalf("expected field name, got %q", validationErr.Field)
	}
}
