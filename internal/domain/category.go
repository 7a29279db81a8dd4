package domain

// Category is a recipe category shown on the home page grid.
type Category struct {
	Name     string
	Slug     string
	Count    int
	ImageURL string
}

// CategoryListing is a category name with the recipes filed under it.
type CategoryListing struct {
	Name    string
	Slug    string
	Recipes []RecipeSummary
}
