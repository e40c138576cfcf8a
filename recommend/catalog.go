package recommend

import (
	"time"

	"menugenius/domain"

	"github.com/shopspring/decimal"
)

var catalogEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func dish(id int, name, description, price, category, cuisine string, tags []string, spice domain.SpiceLevel, calories int, ingredients ...string) domain.MenuItem {
	return domain.MenuItem{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Cuisine:     cuisine,
		Ingredients: ingredients,
		DietaryTags: tags,
		SpiceLevel:  spice,
		Calories:    calories,
		IsAvailable: true,
		CreatedAt:   catalogEpoch,
		UpdatedAt:   catalogEpoch,
	}
}

// SampleCatalog returns the static menu used in offline mode and for seeding.
// Each call returns a fresh copy.
func SampleCatalog() []domain.MenuItem {
	return []domain.MenuItem{
		dish(1, "Irish Stew", "Slow cooked lamb with root vegetables", "18.50", "Main Course", "Irish Traditional",
			[]string{"gluten-free", "dairy-free"}, domain.SpiceNone, 650, "lamb", "potato", "carrot", "onion"),
		dish(2, "Buddha Bowl", "Quinoa, roasted chickpeas, avocado and tahini", "14.00", "Main Course", "Modern Healthy",
			[]string{"vegan", "vegetarian", "gluten-free"}, domain.SpiceNone, 520, "quinoa", "chickpeas", "avocado", "tahini"),
		dish(3, "Green Thai Curry", "Coconut curry with tofu and jasmine rice", "16.00", "Main Course", "Thai",
			[]string{"vegan", "vegetarian"}, domain.SpiceHot, 610, "tofu", "coconut milk", "green chilli", "rice"),
		dish(4, "Seafood Chowder", "Creamy chowder with smoked haddock and mussels", "12.50", "Starter", "Contemporary Irish",
			[]string{"pescatarian"}, domain.SpiceNone, 430, "haddock", "mussels", "cream", "potato"),
		dish(5, "Margherita Pizza", "Tomato, mozzarella and basil", "13.00", "Main Course", "Italian",
			[]string{"vegetarian"}, domain.SpiceNone, 800, "flour", "tomato", "mozzarella", "basil"),
		dish(6, "Grilled Salmon", "Salmon fillet with lemon butter and greens", "22.00", "Main Course", "Contemporary",
			[]string{"gluten-free", "pescatarian"}, domain.SpiceNone, 560, "salmon", "butter", "lemon", "spinach"),
		dish(7, "Spicy Szechuan Noodles", "Hand pulled noodles in chilli oil", "15.50", "Main Course", "Asian Fusion",
			[]string{"vegan", "vegetarian", "dairy-free"}, domain.SpiceVeryHot, 690, "noodles", "chilli oil", "szechuan pepper"),
		dish(8, "Caesar Salad", "Cos lettuce, parmesan and croutons", "10.00", "Starter", "Contemporary",
			[]string{"vegetarian"}, domain.SpiceNone, 380, "lettuce", "parmesan", "croutons"),
		dish(9, "Beef and Guinness Pie", "Braised beef under puff pastry", "19.00", "Main Course", "Irish Traditional",
			nil, domain.SpiceMild, 920, "beef", "stout", "pastry"),
		dish(10, "Sticky Toffee Pudding", "Warm date sponge with toffee sauce", "8.50", "Dessert", "Contemporary Irish",
			[]string{"vegetarian"}, domain.SpiceNone, 610, "dates", "butter", "sugar", "cream"),
	}
}
