package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vanshika/foodiefusion/internal/domain"
	"github.com/vanshika/foodiefusion/internal/graphql"
)

// Repository wraps the GraphQL client with one method per CMS query. Each
// method builds variables, executes a fixed document, decodes the typed
// result and applies empty defaults; nothing more.
type Repository struct {
	client graphql.Client
}

// New instantiates a Repository backed by the supplied GraphQL client.
func New(client graphql.Client) *Repository {
	return &Repository{client: client}
}

// ListRecipes returns one page of recipes, newest first, starting after the
// given cursor. An empty cursor starts from the beginning.
func (r *Repository) ListRecipes(ctx context.Context, after string) (domain.Page[domain.RecipeSummary], error) {
	vars := map[string]any{
		"first": RecipesPageSize,
		"after": nil,
	}
	if after != "" {
		vars["after"] = after
	}

	var out struct {
		Recipes *wireRecipeConnection `json:"recipes"`
	}
	if _, err := r.execute(ctx, allRecipesQuery, vars, &out); err != nil {
		return domain.Page[domain.RecipeSummary]{}, fmt.Errorf("list recipes: %w", err)
	}
	return out.Recipes.page(), nil
}

// GetRecipeBySlug fetches one recipe. A null recipe yields graphql.ErrNotFound.
func (r *Repository) GetRecipeBySlug(ctx context.Context, slug string) (domain.Recipe, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Recipe{}, graphql.ErrNotFound
	}

	var out struct {
		Recipe *wireRecipe `json:"recipe"`
	}
	found, err := r.execute(ctx, recipeBySlugQuery, map[string]any{"id": slug}, &out)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("get recipe %s: %w", slug, err)
	}
	if !found || out.Recipe == nil {
		return domain.Recipe{}, graphql.ErrNotFound
	}
	recipe := out.Recipe.toDomain()
	if recipe.Slug == "" {
		recipe.Slug = slug
	}
	return recipe, nil
}

// FeaturedRecipes returns the recipes tagged "featured".
func (r *Repository) FeaturedRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	var out struct {
		Recipes *wireRecipeConnection `json:"recipes"`
	}
	if _, err := r.execute(ctx, featuredRecipesQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("featured recipes: %w", err)
	}
	return out.Recipes.summaries(), nil
}

// AllCategories returns every non-empty category.
func (r *Repository) AllCategories(ctx context.Context) ([]domain.Category, error) {
	var out struct {
		Categories *struct {
			Nodes []wireCategory `json:"nodes"`
		} `json:"categories"`
	}
	if _, err := r.execute(ctx, allCategoriesQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := []domain.Category{}
	if out.Categories != nil {
		for _, n := range out.Categories.Nodes {
			categories = append(categories, n.toDomain())
		}
	}
	return categories, nil
}

// RecipesByCategory returns the category name and its recipes. An unknown
// category yields graphql.ErrNotFound.
func (r *Repository) RecipesByCategory(ctx context.Context, slug string) (domain.CategoryListing, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.CategoryListing{}, graphql.ErrNotFound
	}

	var out struct {
		Recipes  *wireRecipeConnection `json:"recipes"`
		Category *struct {
			Name string `json:"name"`
		} `json:"category"`
	}
	vars := map[string]any{"categoryName": slug, "slug": slug}
	if _, err := r.execute(ctx, recipesByCategoryQuery, vars, &out); err != nil {
		return domain.CategoryListing{}, fmt.Errorf("recipes by category %s: %w", slug, err)
	}
	if out.Category == nil || out.Category.Name == "" {
		return domain.CategoryListing{}, graphql.ErrNotFound
	}
	return domain.CategoryListing{
		Name:    out.Category.Name,
		Slug:    slug,
		Recipes: out.Recipes.summaries(),
	}, nil
}

// SearchRecipes runs a full-text search. A blank term returns no results
// without contacting the CMS.
func (r *Repository) SearchRecipes(ctx context.Context, term string) ([]domain.RecipeSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.RecipeSummary{}, nil
	}

	var out struct {
		Recipes *wireRecipeConnection `json:"recipes"`
	}
	if _, err := r.execute(ctx, searchRecipesQuery, map[string]any{"search": term}, &out); err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return out.Recipes.summaries(), nil
}

// GetPageBySlug fetches a generic CMS page by URI. A null page yields graphql.ErrNotFound.
func (r *Repository) GetPageBySlug(ctx context.Context, slug string) (domain.ContentPage, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return domain.ContentPage{}, graphql.ErrNotFound
	}

	var out struct {
		Page *wirePage `json:"page"`
	}
	found, err := r.execute(ctx, pageBySlugQuery, map[string]any{"id": slug}, &out)
	if err != nil {
		return domain.ContentPage{}, fmt.Errorf("get page %s: %w", slug, err)
	}
	if !found || out.Page == nil {
		return domain.ContentPage{}, graphql.ErrNotFound
	}

	page := domain.ContentPage{Title: out.Page.Title, Slug: slug}
	if c := out.Page.PageContent; c != nil {
		page.Section1Content = c.Section1Content
		page.Section1Image = c.Section1Image.toDomain()
		page.Section2Content = c.Section2Content
		page.Section2Image = c.Section2Image.toDomain()
		page.Section2ImagePosition = c.Section2ImagePosition
		page.Section3Content = c.Section3Content
	}
	return page, nil
}

// CreateComment submits a comment for moderation.
func (r *Repository) CreateComment(ctx context.Context, input domain.CommentInput) (domain.CommentResult, error) {
	vars := map[string]any{
		"input": map[string]any{
			"commentOn":   input.PostID,
			"author":      input.Author,
			"authorEmail": input.AuthorEmail,
			"content":     input.Content,
		},
	}

	var out struct {
		CreateComment *struct {
			Success bool `json:"success"`
			Comment *struct {
				ID string `json:"id"`
			} `json:"comment"`
		} `json:"createComment"`
	}
	if _, err := r.execute(ctx, createCommentMutation, vars, &out); err != nil {
		return domain.CommentResult{}, fmt.Errorf("create comment on %d: %w", input.PostID, err)
	}

	result := domain.CommentResult{}
	if out.CreateComment != nil {
		result.Success = out.CreateComment.Success
		if out.CreateComment.Comment != nil {
			result.ID = out.CreateComment.Comment.ID
		}
	}
	return result, nil
}

// execute runs doc and decodes a non-null data payload into dst. The bool
// result is false when the CMS answered with null data.
func (r *Repository) execute(ctx context.Context, doc string, vars map[string]any, dst any) (bool, error) {
	data, err := r.client.Execute(ctx, graphql.Request{Query: doc, Variables: vars})
	if err != nil {
		return false, err
	}
	if graphql.IsNull(data) {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, &graphql.ProtocolError{
			StatusCode: 200,
			Reason:     "unexpected data shape: " + err.Error(),
			Body:       data,
		}
	}
	return true, nil
}
