package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantField string
	}{
		{"valid", "Chocolate cake", "Chocolate cake", ""},
		{"trimmed", "  Chocolate cake ", "Chocolate cake", ""},
		{"empty", "", "", "title"},
		{"whitespace_only", "  ", "", "title"},
		{"too_long", strings.Repeat("a", maxTitleLength+1), "", "title"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := validateTitle(test.input)
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

func TestValidateTimeMinutes(t *testing.T) {
	if err := validateTimeMinutes(0); err != nil {
		t.Fatalf("zero minutes should be valid, got %v", err)
	}
	if err := validateTimeMinutes(45); err != nil {
		t.Fatalf("positive minutes should be valid, got %v", err)
	}

	err := validateTimeMinutes(-1)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Field != "time_minutes" {
		t.Fatalf("expected field time_minutes, got %q", validationErr.Field)
	}
}

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		wantErr bool
	}{
		{"zero", "0", false},
		{"positive", "5.00", false},
		{"negative", "-0.01", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			price, err := decimal.NewFromString(test.price)
			if err != nil {
				t.Fatalf("bad test fixture: %v", err)
			}

			err = validatePrice(price)
			if test.wantErr {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if validationErr.Field != "price" {
					t.Fatalf("expected field price, got %q", validationErr.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateRecipeValidationErrors(t *testing.T) {
	svc := &RecipeService{}

	tests := []struct {
		name      string
		input     CreateRecipeInput
		wantField string
	}{
		{
			name: "empty_title",
			input: CreateRecipeInput{
				Title:       "",
				TimeMinutes: 10,
				OwnerID:     "user123",
			},
			wantField: "title",
		},
		{
			name: "negative_minutes",
			input: CreateRecipeInput{
				Title:       "Soup",
				TimeMinutes: -5,
				OwnerID:     "user123",
			},
			wantField: "time_minutes",
		},
		{
			name: "negative_price",
			input: CreateRecipeInput{
				Title:       "Soup",
				TimeMinutes: 5,
				Price:       decimal.NewFromInt(-1),
				OwnerID:     "user123",
			},
			wantField: "price",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Validation runs before any repository access.
			_, err := svc.CreateRecipe(context.Background(), test.input)

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

func TestUploadImageRejectsContentType(t *testing.T) {
	svc := NewRecipeService(nil, nil, "http://localhost:8080/media", nil)

	_, err := svc.UploadImage(context.Background(), UploadImageInput{
		RecipeID:    1,
		OwnerID:     "user123",
		ContentType: "text/plain",
		Data:        strings.NewReader("not an image"),
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Field != "image" {
		t.Fatalf("expected field image, got %q", validationErr.Field)
	}
}

func TestDedupeIDs(t *testing.T) {
	tests := []struct {
		name  string
		input []int64
		want  []int64
	}{
		{"nil", nil, nil},
		{"empty", []int64{}, []int64{}},
		{"sorted_unique", []int64{3, 1, 2, 3, 1}, []int64{1, 2, 3}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := dedupeIDs(test.input)
			if len(got) != len(test.want) {
				t.Fatalf("expected %v, got %v", test.want, got)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Fatalf("expected %v, got %v", test.want, got)
				}
			}
			if (test.input == nil) != (got == nil) {
				t.Fatalf("nil-ness should be preserved")
			}
		})
	}
}

func TestImageURL(t *testing.T) {
	svc := NewRecipeService(nil, nil, "http://localhost:8080/media/", nil)

	got := svc.ImageURL("recipes/1/abc.jpg")
	want := "http://localhost:8080/media/recipes/1/abc.jpg"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
