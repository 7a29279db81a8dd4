package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/foodiefusion/internal/comments"
	"github.com/vanshika/foodiefusion/internal/domain"
	"github.com/vanshika/foodiefusion/internal/graphql"
)

type stubRepository struct {
	mu sync.Mutex

	pages       map[string]domain.Page[domain.RecipeSummary]
	listErr     error
	cursors     []string
	recipe      domain.Recipe
	recipeErr   error
	featured    []domain.RecipeSummary
	featuredErr error
	categories  []domain.Category
	category    domain.CategoryListing
	categoryErr error
	search      []domain.RecipeSummary
	page        domain.ContentPage
	pageErr     error
	comment     domain.CommentResult
	commentErr  error
	inputs      []domain.CommentInput
}

func (s *stubRepository) ListRecipes(ctx context.Context, after string) (domain.Page[domain.RecipeSummary], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = append(s.cursors, after)
	if s.listErr != nil {
		return domain.Page[domain.RecipeSummary]{}, s.listErr
	}
	return s.pages[after], nil
}

func (s *stubRepository) GetRecipeBySlug(ctx context.Context, slug string) (domain.Recipe, error) {
	return s.recipe, s.recipeErr
}

func (s *stubRepository) FeaturedRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return s.featured, s.featuredErr
}

func (s *stubRepository) AllCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubRepository) RecipesByCategory(ctx context.Context, slug string) (domain.CategoryListing, error) {
	return s.category, s.categoryErr
}

func (s *stubRepository) SearchRecipes(ctx context.Context, term string) ([]domain.RecipeSummary, error) {
	return s.search, nil
}

func (s *stubRepository) GetPageBySlug(ctx context.Context, slug string) (domain.ContentPage, error) {
	return s.page, s.pageErr
}

func (s *stubRepository) CreateComment(ctx context.Context, input domain.CommentInput) (domain.CommentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input)
	return s.comment, s.commentErr
}

func summaries(slugs ...string) []domain.RecipeSummary {
	out := make([]domain.RecipeSummary, 0, len(slugs))
	for _, slug := range slugs {
		out = append(out, domain.RecipeSummary{ID: "id-" + slug, Slug: slug, Title: slug})
	}
	return out
}

func TestContentService_Home(t *testing.T) {
	repo := &stubRepository{
		featured:   summaries("hero", "second"),
		categories: []domain.Category{{Name: "Bread", Slug: "bread"}},
		pages: map[string]domain.Page[domain.RecipeSummary]{
			"": {Items: summaries("a", "b"), EndCursor: "c2", HasNextPage: true},
		},
	}
	svc := NewContentService(repo, Options{})

	view, err := svc.Home(context.Background())
	require.NoError(t, err)

	require.NotNil(t, view.Hero)
	assert.Equal(t, "hero", view.Hero.Slug)
	assert.Len(t, view.Categories, 1)
	assert.Len(t, view.Recipes.Items, 2)
	assert.Equal(t, "c2", view.Recipes.Cursor)
	assert.True(t, view.Recipes.HasMore)
	assert.Equal(t, "Foodie Fusion", svc.SiteName())
}

func TestContentService_HomeFailsWhenAnyFetchFails(t *testing.T) {
	boom := errors.New("cms down")
	repo := &stubRepository{featuredErr: boom}

	_, err := NewContentService(repo, Options{}).Home(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestContentService_MoreRecipes(t *testing.T) {
	repo := &stubRepository{pages: map[string]domain.Page[domain.RecipeSummary]{
		"c9": {Items: summaries("p10", "p11"), EndCursor: "c18", HasNextPage: false},
	}}
	svc := NewContentService(repo, Options{})

	st, err := svc.MoreRecipes(context.Background(), "c9")
	require.NoError(t, err)

	assert.Equal(t, summaries("p10", "p11"), st.Items)
	assert.Equal(t, "c18", st.Cursor)
	assert.False(t, st.HasMore)
	assert.Equal(t, []string{"c9"}, repo.cursors)
}

func TestContentService_MoreRecipesFailureKeepsCursor(t *testing.T) {
	boom := &graphql.ProtocolError{StatusCode: 502, Reason: "bad gateway"}
	repo := &stubRepository{listErr: boom}

	st, err := NewContentService(repo, Options{}).MoreRecipes(context.Background(), "c9")

	var protoErr *graphql.ProtocolError
	require.True(t, errors.As(err, &protoErr))
	assert.Empty(t, st.Items)
	assert.Equal(t, "c9", st.Cursor)
	assert.True(t, st.HasMore)
}

func TestContentService_RecipeDetail(t *testing.T) {
	repo := &stubRepository{recipe: domain.Recipe{
		Title:   "Loaf",
		Content: `<h2>Tips</h2><p>x</p>`,
		Fields: domain.RecipeFields{
			Summary:      "<p>Crusty <b>bread</b></p>",
			Section1:     `<h2>Why it works</h2>`,
			Section2:     `<h2>Tips</h2>`,
			Ingredients:  "flour\n\nwater",
			Instructions: "mix\nbake",
			Rating:       4.5,
			RatingCount:  3,
			FAQ:          "Q: Freeze?|A: Yes.",
		},
		Comments: []domain.Comment{{ID: "c1"}},
	}, pages: map[string]domain.Page[domain.RecipeSummary]{
		"": {Items: summaries("a", "b", "c", "d", "e")},
	}}
	svc := NewContentService(repo, Options{SiteName: "Test Kitchen", DedupeHeadings: true})

	view, err := svc.RecipeDetail(context.Background(), "loaf")
	require.NoError(t, err)

	ids := make([]string, 0, len(view.Headings))
	for _, h := range view.Headings {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []string{"why-it-works", "tips", "tips-2"}, ids)
	assert.Equal(t, `<h2 id="tips">Tips</h2><p>x</p>`, view.Content)
	assert.Equal(t, `<h2 id="tips-2">Tips</h2>`, view.Section2)
	assert.Equal(t, "Crusty bread", view.Description)
	assert.Equal(t, []string{"flour", "water"}, view.Ingredients)
	assert.Len(t, view.FAQ, 1)
	assert.Equal(t, 4, view.Stars.Full)
	assert.True(t, view.Stars.Half)
	assert.Equal(t, "Test Kitchen", view.Schema.Author.Name)
	assert.Equal(t, 1, view.Comments.Len())
	assert.Equal(t, summaries("a", "b", "c"), view.Recent)
}

func TestContentService_RecipeDetailRecentFailure(t *testing.T) {
	repo := &stubRepository{recipe: domain.Recipe{Title: "Loaf"}, listErr: errors.New("cms down")}
	_, err := NewContentService(repo, Options{}).RecipeDetail(context.Background(), "loaf")
	assert.ErrorContains(t, err, "cms down")
}

func TestContentService_RecipeDetailNotFound(t *testing.T) {
	repo := &stubRepository{recipeErr: graphql.ErrNotFound}
	_, err := NewContentService(repo, Options{}).RecipeDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, graphql.ErrNotFound)
}

func TestContentService_Search(t *testing.T) {
	repo := &stubRepository{search: summaries("loaf")}
	svc := NewContentService(repo, Options{})

	view, err := svc.Search(context.Background(), "bread")
	require.NoError(t, err)
	assert.True(t, view.Searched)
	assert.Len(t, view.Results, 1)

	repo.search = []domain.RecipeSummary{}
	view, err = svc.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.False(t, view.Searched)
}

func TestContentService_SubmitComment(t *testing.T) {
	now := time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)
	repo := &stubRepository{comment: domain.CommentResult{Success: true, ID: "Y29t"}}
	svc := NewContentService(repo, Options{})
	svc.WithClock(func() time.Time { return now })

	result, pending, err := svc.SubmitComment(context.Background(), comments.Submission{
		PostID: 42, Author: "Ana", AuthorEmail: "ana@example.com", Content: "Lovely",
	})
	require.NoError(t, err)

	assert.Equal(t, "Y29t", result.ID)
	assert.True(t, pending.Pending)
	assert.Equal(t, "<p>Lovely</p>", pending.Content)
	assert.Equal(t, now, pending.Date)
	require.Len(t, repo.inputs, 1)
	assert.Equal(t, 42, repo.inputs[0].PostID)
}

func TestContentService_SubmitCommentFailures(t *testing.T) {
	valid := comments.Submission{PostID: 1, Author: "a", AuthorEmail: "b", Content: "c"}

	repo := &stubRepository{}
	_, _, err := NewContentService(repo, Options{}).SubmitComment(context.Background(), comments.Submission{PostID: 1})
	assert.ErrorIs(t, err, comments.ErrMissingFields)
	assert.Empty(t, repo.inputs)

	repo = &stubRepository{comment: domain.CommentResult{Success: false}}
	_, _, err = NewContentService(repo, Options{}).SubmitComment(context.Background(), valid)
	assert.ErrorIs(t, err, ErrCommentRejected)

	boom := errors.New("network")
	repo = &stubRepository{commentErr: boom}
	_, _, err = NewContentService(repo, Options{}).SubmitComment(context.Background(), valid)
	assert.ErrorIs(t, err, boom)
}

func TestContentService_SitemapPathsDrainsEveryPage(t *testing.T) {
	repo := &stubRepository{
		categories: []domain.Category{{Slug: "bread"}, {Slug: ""}},
		pages: map[string]domain.Page[domain.RecipeSummary]{
			"":   {Items: summaries("a", "b"), EndCursor: "c2", HasNextPage: true},
			"c2": {Items: summaries("c"), EndCursor: "c3", HasNextPage: true},
			"c3": {Items: summaries("d"), EndCursor: "", HasNextPage: false},
		},
	}

	paths, err := NewContentService(repo, Options{}).SitemapPaths(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/", "/recipes", "/category/bread",
		"/recipes/a", "/recipes/b", "/recipes/c", "/recipes/d",
	}, paths)
	assert.Equal(t, []string{"", "c2", "c3"}, repo.cursors)
}

func TestContentService_SitemapPathsStopsOnStalledCursor(t *testing.T) {
	repo := &stubRepository{pages: map[string]domain.Page[domain.RecipeSummary]{
		"":   {Items: summaries("a"), EndCursor: "c1", HasNextPage: true},
		"c1": {Items: summaries("b"), EndCursor: "c1", HasNextPage: true},
	}}

	_, err := NewContentService(repo, Options{}).SitemapPaths(context.Background())
	assert.ErrorIs(t, err, ErrCursorStalled)
}
