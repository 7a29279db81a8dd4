package service

import (
	"github.com/vanshika/foodiefusion/internal/comments"
	"github.com/vanshika/foodiefusion/internal/domain"
	"github.com/vanshika/foodiefusion/internal/listing"
	"github.com/vanshika/foodiefusion/internal/recipe"
	"github.com/vanshika/foodiefusion/internal/richtext"
)

// HomeView is everything the home page renders.
type HomeView struct {
	Hero       *domain.RecipeSummary
	Featured   []domain.RecipeSummary
	Categories []domain.Category
	Recipes    listing.State[domain.RecipeSummary]
}

// RecipeView is a recipe with its long-form fields already carrying heading
// anchors. HTML fields are still untrusted strings; the renderer decides how
// to embed them.
type RecipeView struct {
	Recipe      domain.Recipe
	Description string

	Section1 string
	Content  string
	Section2 string
	Headings []richtext.Heading

	FAQ          []richtext.QA
	Ingredients  []string
	Instructions []string
	Equipment    []string
	Stars        recipe.Stars
	Schema       recipe.Schema
	Comments     *comments.Thread

	// Recent is the newest recipes, for the sidebar.
	Recent []domain.RecipeSummary
}

// SearchView is the search results page state.
type SearchView struct {
	Term     string
	Searched bool
	Results  []domain.RecipeSummary
}
