package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox/internal/model"
)

// CreateRecipeRequest represents the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link,omitempty"`
	Tags        []int64         `json:"tags,omitempty"`
	Ingredients []int64         `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Nil fields are absent from the payload; the handler decides which are
// required (PUT) and which may be omitted (PATCH).
type UpdateRecipeRequest struct {
	Title       *string          `json:"title,omitempty"`
	TimeMinutes *int             `json:"time_minutes,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Link        *string          `json:"link,omitempty"`
	Tags        []int64          `json:"tags,omitempty"`
	Ingredients []int64          `json:"ingredients,omitempty"`
}

// RecipeSummary represents a recipe in list responses.
// Tags and ingredients are bare id arrays.
type RecipeSummary struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link,omitempty"`
	Tags        []int64         `json:"tags"`
	Ingredients []int64         `json:"ingredients"`
	ImageURL    string          `json:"image,omitempty"`
}

// RecipeDetail represents a single recipe with its attached tags and
// ingredients expanded to full objects.
type RecipeDetail struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       decimal.Decimal      `json:"price"`
	Link        string               `json:"link,omitempty"`
	Tags        []TagResponse        `json:"tags"`
	Ingredients []IngredientResponse `json:"ingredients"`
	ImageURL    string               `json:"image,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// RecipeImage represents the response to an image upload.
type RecipeImage struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image"`
}

// ImageURLResolver maps a stored image key to its public URL.
type ImageURLResolver func(key string) string

// ToRecipeSummary converts a Recipe model to RecipeSummary DTO.
func ToRecipeSummary(recipe *model.Recipe, resolve ImageURLResolver) *RecipeSummary {
	summary := &RecipeSummary{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Tags:        recipe.TagIDs,
		Ingredients: recipe.IngredientIDs,
	}
	if summary.Tags == nil {
		summary.Tags = []int64{}
	}
	if summary.Ingredients == nil {
		summary.Ingredients = []int64{}
	}
	if recipe.HasImage() {
		summary.ImageURL = resolve(*recipe.Image)
	}
	return summary
}

// ToRecipeSummaries converts a slice of Recipe models to RecipeSummary DTOs.
func ToRecipeSummaries(recipes []*model.Recipe, resolve ImageURLResolver) []RecipeSummary {
	summaries := make([]RecipeSummary, len(recipes))
	for i, recipe := range recipes {
		summaries[i] = *ToRecipeSummary(recipe, resolve)
	}
	return summaries
}

// ToRecipeDetail converts a Recipe model to RecipeDetail DTO.
// The recipe must carry its attached tags and ingredients as full rows.
func ToRecipeDetail(recipe *model.Recipe, resolve ImageURLResolver) *RecipeDetail {
	detail := &RecipeDetail{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Tags:        ToTagResponses(recipe.Tags),
		Ingredients: ToIngredientResponses(recipe.Ingredients),
		CreatedAt:   recipe.CreatedAt,
		UpdatedAt:   recipe.UpdatedAt,
	}
	if recipe.HasImage() {
		detail.ImageURL = resolve(*recipe.Image)
	}
	return detail
}

// ToRecipeImage converts a Recipe id and image key to a RecipeImage DTO.
func ToRecipeImage(id int64, key string, resolve ImageURLResolver) *RecipeImage {
	return &RecipeImage{
		ID:       id,
		ImageURL: resolve(key),
	}
}
