package domain

import "time"

// CategoryRef is the short category reference attached to recipes.
type CategoryRef struct {
	Name string
	Slug string
}

// RecipeSummary is what listings, search results and cards need.
type RecipeSummary struct {
	ID         string
	Title      string
	Slug       string
	ImageURL   string
	Summary    string
	Categories []CategoryRef
}

// RecipeFields mirrors the recipe custom field group edited in the CMS.
// Long-form values (Summary, Section1, Section2) are HTML fragments.
type RecipeFields struct {
	Summary      string
	CookingTime  string
	PrepTime     string
	TotalTime    string
	Servings     string
	Difficulty   string
	Ingredients  string
	Instructions string
	Notes        string
	Equipment    string
	FAQ          string
	Rating       float64
	RatingCount  int
	Section1     string
	Section2     string
	Course       string
	Cuisine      string
	AuthorName   string
}

// Recipe is a single recipe post with its comments.
type Recipe struct {
	DatabaseID int
	Title      string
	Slug       string
	Content    string
	Date       time.Time
	ImageURL   string
	Categories []CategoryRef
	Fields     RecipeFields
	Comments   []Comment
}
