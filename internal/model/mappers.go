package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pageza/recipebox/backend/internal/types"
)

// EncodeStringList serializes a list as a JSON array. A nil list encodes as "[]".
func EncodeStringList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// DecodeStringList parses a JSON array blob. The result is never nil.
func DecodeStringList(blob string) ([]string, error) {
	list := []string{}
	if blob == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(blob), &list); err != nil {
		return nil, fmt.Errorf("failed to decode string list: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// EncodeTags serializes tags, keeping "absent" (nil) apart from "empty".
func EncodeTags(tags []string) (*string, error) {
	if tags == nil {
		return nil, nil
	}
	blob, err := EncodeStringList(tags)
	if err != nil {
		return nil, err
	}
	return &blob, nil
}

// DecodeTags parses a nullable tags blob; NULL decodes to an empty list.
func DecodeTags(blob *string) ([]string, error) {
	if blob == nil {
		return []string{}, nil
	}
	return DecodeStringList(*blob)
}

// NewRecipe builds a row for a freshly created recipe
func NewRecipe(id string, req *types.CreateRecipeRequest, now time.Time) (*Recipe, error) {
	r := &Recipe{
		ID:        id,
		CreatedAt: now,
	}
	if err := r.Apply(req, now); err != nil {
		return nil, err
	}
	return r, nil
}

// Apply overwrites the row's content with req and stamps UpdatedAt. ID and
// CreatedAt are left alone.
func (r *Recipe) Apply(req *types.CreateRecipeRequest, now time.Time) error {
	ingredients, err := EncodeStringList(req.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to encode ingredients: %w", err)
	}
	instructions, err := EncodeStringList(req.Instructions)
	if err != nil {
		return fmt.Errorf("failed to encode instructions: %w", err)
	}
	tags, err := EncodeTags(req.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	r.Title = req.Title
	r.Description = req.Description
	r.Ingredients = ingredients
	r.Instructions = instructions
	r.Tags = tags
	r.CookingTime = req.CookingTime
	if r.CookingTime <= 0 {
		r.CookingTime = types.DefaultCookingTime
	}
	r.Difficulty = string(types.DefaultDifficulty)
	if d, ok := types.ParseDifficulty(string(req.Difficulty)); ok {
		r.Difficulty = string(d)
	}
	r.Category = string(types.DefaultCategory)
	if c, ok := types.ParseCategory(string(req.Category)); ok {
		r.Category = string(c)
	}
	r.UpdatedAt = now
	return nil
}

// ToAPI converts the row back into the API shape
func (r *Recipe) ToAPI() (*types.Recipe, error) {
	ingredients, err := DecodeStringList(r.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: ingredients: %w", r.ID, err)
	}
	instructions, err := DecodeStringList(r.Instructions)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: instructions: %w", r.ID, err)
	}
	tags, err := DecodeTags(r.Tags)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: tags: %w", r.ID, err)
	}

	difficulty, ok := types.ParseDifficulty(r.Difficulty)
	if !ok {
		difficulty = types.DefaultDifficulty
	}
	category, ok := types.ParseCategory(r.Category)
	if !ok {
		category = types.DefaultCategory
	}
	cookingTime := r.CookingTime
	if cookingTime <= 0 {
		cookingTime = types.DefaultCookingTime
	}

	return &types.Recipe{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  ingredients,
		Instructions: instructions,
		CookingTime:  cookingTime,
		Difficulty:   difficulty,
		Category:     category,
		Tags:         tags,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}
