package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SpiceLevel string

const (
	SpiceNone    SpiceLevel = "None"
	SpiceMild    SpiceLevel = "Mild"
	SpiceMedium  SpiceLevel = "Medium"
	SpiceHot     SpiceLevel = "Hot"
	SpiceVeryHot SpiceLevel = "Very Hot"
)

type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Cuisine     string          `json:"cuisine"`
	Ingredients []string        `json:"ingredients"`
	DietaryTags []string        `json:"dietaryTags"`
	SpiceLevel  SpiceLevel      `json:"spiceLevel,omitempty"`
	Calories    int             `json:"calories"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// HasDietaryTag reports whether the item carries tag, ignoring case.
func (m MenuItem) HasDietaryTag(tag string) bool {
	for _, t := range m.DietaryTags {
		if strings.EqualFold(t, strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}

// HasAnyDietaryTag reports whether the item carries at least one of tags.
func (m MenuItem) HasAnyDietaryTag(tags []string) bool {
	for _, tag := range tags {
		if m.HasDietaryTag(tag) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with m.
func (m MenuItem) Clone() MenuItem {
	out := m
	out.Ingredients = append([]string(nil), m.Ingredients...)
	out.DietaryTags = append([]string(nil), m.DietaryTags...)
	return out
}

var spiceLevels = []SpiceLevel{SpiceNone, SpiceMild, SpiceMedium, SpiceHot, SpiceVeryHot}

// ParseSpiceLevel matches s against the known levels ignoring case. Blank
// means SpiceNone.
func ParseSpiceLevel(s string) (SpiceLevel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SpiceNone, nil
	}
	for _, level := range spiceLevels {
		if strings.EqualFold(string(level), s) {
			return level, nil
		}
	}
	return "", fmt.Errorf("%w: unknown spice level %q", ErrValidation, s)
}

// MenuItemRequest is the body of the menu management calls. A nil
// IsAvailable means available on create and unchanged on update.
type MenuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Cuisine     string          `json:"cuisine"`
	Ingredients []string        `json:"ingredients"`
	DietaryTags []string        `json:"dietaryTags"`
	SpiceLevel  SpiceLevel      `json:"spiceLevel"`
	Calories    int             `json:"calories"`
	ImageURL    string          `json:"imageUrl"`
	IsAvailable *bool           `json:"isAvailable,omitempty"`
}

// MenuItemRequestFrom is the request that would recreate item as it is.
func MenuItemRequestFrom(item MenuItem) MenuItemRequest {
	available := item.IsAvailable
	return MenuItemRequest{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		Cuisine:     item.Cuisine,
		Ingredients: append([]string(nil), item.Ingredients...),
		DietaryTags: append([]string(nil), item.DietaryTags...),
		SpiceLevel:  item.SpiceLevel,
		Calories:    item.Calories,
		ImageURL:    item.ImageURL,
		IsAvailable: &available,
	}
}

// Normalize trims the text fields, drops blank list entries and rounds the
// price to cents. A name and a positive price are required.
func (r MenuItemRequest) Normalize() (MenuItemRequest, error) {
	out := r
	out.Name = strings.TrimSpace(r.Name)
	if out.Name == "" {
		return MenuItemRequest{}, fmt.Errorf("%w: menu item name is required", ErrValidation)
	}
	out.Price = r.Price.Round(2)
	if !out.Price.IsPositive() {
		return MenuItemRequest{}, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if r.Calories < 0 {
		return MenuItemRequest{}, fmt.Errorf("%w: calories cannot be negative", ErrValidation)
	}
	level, err := ParseSpiceLevel(string(r.SpiceLevel))
	if err != nil {
		return MenuItemRequest{}, err
	}
	out.SpiceLevel = level
	out.Description = strings.TrimSpace(r.Description)
	out.Category = strings.TrimSpace(r.Category)
	out.Cuisine = strings.TrimSpace(r.Cuisine)
	out.ImageURL = strings.TrimSpace(r.ImageURL)
	out.Ingredients = cleanList(r.Ingredients)
	out.DietaryTags = cleanList(r.DietaryTags)
	return out, nil
}

// Apply writes the request onto item. ID and timestamps are kept, and so is
// availability when IsAvailable is nil.
func (r MenuItemRequest) Apply(item MenuItem) MenuItem {
	item.Name = r.Name
	item.Description = r.Description
	item.Price = r.Price
	item.Category = r.Category
	item.Cuisine = r.Cuisine
	item.Ingredients = append([]string{}, r.Ingredients...)
	item.DietaryTags = append([]string{}, r.DietaryTags...)
	item.SpiceLevel = r.SpiceLevel
	item.Calories = r.Calories
	item.ImageURL = r.ImageURL
	if r.IsAvailable != nil {
		item.IsAvailable = *r.IsAvailable
	}
	return item
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
