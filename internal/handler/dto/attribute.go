// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/recipebox/recipebox/internal/model"
)

// CreateAttributeRequest represents the request body for creating a tag
// or an ingredient.
type CreateAttributeRequest struct {
	Name string `json:"name"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IngredientResponse represents an ingredient in API responses.
type IngredientResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse represents an API error.
// Field is set for validation errors that reject a specific input field.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// ToTagResponse converts a Tag model to TagResponse DTO.
func ToTagResponse(tag *model.Tag) *TagResponse {
	return &TagResponse{
		ID:   tag.ID,
		Name: tag.Name,
	}
}

// ToTagResponses converts a slice of Tag models to TagResponse DTOs.
func ToTagResponses(tags []*model.Tag) []TagResponse {
	responses := make([]TagResponse, len(tags))
	for i, tag := range tags {
		responses[i] = *ToTagResponse(tag)
	}
	return responses
}

// ToIngredientResponse converts an Ingredient model to IngredientResponse DTO.
func ToIngredientResponse(ingredient *model.Ingredient) *IngredientResponse {
	return &IngredientResponse{
		ID:   ingredient.ID,
		Name: ingredient.Name,
	}
}

// ToIngredientResponses converts a slice of Ingredient models to IngredientResponse DTOs.
func ToIngredientResponses(ingredients []*model.Ingredient) []IngredientResponse {
	responses := make([]IngredientResponse, len(ingredients))
	for i, ingredient := range ingredients {
		responses[i] = *ToIngredientResponse(ingredient)
	}
	return responses
}
