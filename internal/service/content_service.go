package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/foodiefusion/internal/comments"
	"github.com/vanshika/foodiefusion/internal/domain"
	"github.com/vanshika/foodiefusion/internal/listing"
	"github.com/vanshika/foodiefusion/internal/metrics"
	"github.com/vanshika/foodiefusion/internal/recipe"
	"github.com/vanshika/foodiefusion/internal/richtext"
)

// ContentRepository is the CMS contract required by the content service.
type ContentRepository interface {
	ListRecipes(ctx context.Context, after string) (domain.Page[domain.RecipeSummary], error)
	GetRecipeBySlug(ctx context.Context, slug string) (domain.Recipe, error)
	FeaturedRecipes(ctx context.Context) ([]domain.RecipeSummary, error)
	AllCategories(ctx context.Context) ([]domain.Category, error)
	RecipesByCategory(ctx context.Context, slug string) (domain.CategoryListing, error)
	SearchRecipes(ctx context.Context, term string) ([]domain.RecipeSummary, error)
	GetPageBySlug(ctx context.Context, slug string) (domain.ContentPage, error)
	CreateComment(ctx context.Context, input domain.CommentInput) (domain.CommentResult, error)
}

var (
	// ErrCommentRejected is returned when the CMS answers a create with success=false.
	ErrCommentRejected = errors.New("comment rejected by CMS")
	// ErrCursorStalled is returned when the CMS hands back the cursor it was given
	// while still claiming more pages exist.
	ErrCursorStalled = errors.New("pagination cursor did not advance")
)

// Options tunes presentation details of the content service.
type Options struct {
	SiteName string
	// DedupeHeadings suffixes repeated table-of-contents ids with -2, -3, ...
	DedupeHeadings bool
}

// ContentService orchestrates page assembly and delegates fetching to the repository.
type ContentService struct {
	repo  ContentRepository
	opts  Options
	nowFn func() time.Time
}

// NewContentService constructs a ContentService.
func NewContentService(repo ContentRepository, opts Options) *ContentService {
	if opts.SiteName == "" {
		opts.SiteName = "Foodie Fusion"
	}
	return &ContentService{
		repo:  repo,
		opts:  opts,
		nowFn: time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *ContentService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// SiteName is the publisher name shown in titles and structured data.
func (s *ContentService) SiteName() string {
	return s.opts.SiteName
}

// Home loads the featured recipes, the category grid and the first recipe
// page in parallel.
func (s *ContentService) Home(ctx context.Context) (HomeView, error) {
	var (
		view  HomeView
		first domain.Page[domain.RecipeSummary]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		featured, err := s.repo.FeaturedRecipes(gctx)
		view.Featured = featured
		return err
	})
	g.Go(func() error {
		categories, err := s.repo.AllCategories(gctx)
		view.Categories = categories
		return err
	})
	g.Go(func() error {
		page, err := s.repo.ListRecipes(gctx, "")
		first = page
		return err
	})
	if err := g.Wait(); err != nil {
		return HomeView{}, err
	}

	if len(view.Featured) > 0 {
		hero := view.Featured[0]
		view.Hero = &hero
	}
	view.Recipes = listing.New(s.repo.ListRecipes, first).Snapshot()
	return view, nil
}

// Recipes returns the first page of the all-recipes listing.
func (s *ContentService) Recipes(ctx context.Context) (listing.State[domain.RecipeSummary], error) {
	page, err := s.repo.ListRecipes(ctx, "")
	if err != nil {
		return listing.State[domain.RecipeSummary]{}, err
	}
	return listing.New(s.repo.ListRecipes, page).Snapshot(), nil
}

// MoreRecipes loads the page after cursor. The returned state holds only the
// new items. On failure it still carries the original cursor with HasMore set,
// so the caller can offer a retry.
func (s *ContentService) MoreRecipes(ctx context.Context, cursor string) (listing.State[domain.RecipeSummary], error) {
	c := listing.New(s.guardedRecipes(), domain.Page[domain.RecipeSummary]{EndCursor: cursor, HasNextPage: true})
	defer c.Close()

	_, err := c.LoadMore(ctx)
	return c.Snapshot(), err
}

// RecentLimit is how many recipes the recipe page sidebar lists.
const RecentLimit = 3

// RecipeDetail fetches a recipe and prepares everything the recipe page
// renders. The sidebar's recent recipes load alongside the recipe.
func (s *ContentService) RecipeDetail(ctx context.Context, slug string) (RecipeView, error) {
	var (
		r      domain.Recipe
		recent domain.Page[domain.RecipeSummary]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		r, err = s.repo.GetRecipeBySlug(gctx, slug)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.ListRecipes(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return RecipeView{}, err
	}

	toc := richtext.NewTOC(s.opts.DedupeHeadings)
	f := r.Fields
	view := RecipeView{Recipe: r}
	// Rendered order: section1, content, section2.
	view.Section1, _ = toc.Process(f.Section1)
	view.Content, _ = toc.Process(r.Content)
	view.Section2, _ = toc.Process(f.Section2)
	view.Headings = toc.Headings()

	view.FAQ = richtext.ParseFAQ(f.FAQ)
	view.Ingredients = recipe.SplitLines(f.Ingredients)
	view.Instructions = recipe.SplitLines(f.Instructions)
	view.Equipment = recipe.SplitLines(f.Equipment)
	view.Stars = recipe.StarsFor(f.Rating, f.RatingCount)
	view.Schema = recipe.BuildSchema(r, s.opts.SiteName)
	view.Description = richtext.PlainText(f.Summary)
	view.Comments = comments.NewThread(r.Comments)
	view.Recent = recent.Items[:min(len(recent.Items), RecentLimit)]
	return view, nil
}

// Category returns a category and its recipes.
func (s *ContentService) Category(ctx context.Context, slug string) (domain.CategoryListing, error) {
	return s.repo.RecipesByCategory(ctx, slug)
}

// Search runs a recipe search. A blank term is not an error; the view reports
// that no search was made.
func (s *ContentService) Search(ctx context.Context, term string) (SearchView, error) {
	view := SearchView{Term: term}
	results, err := s.repo.SearchRecipes(ctx, term)
	if err != nil {
		return SearchView{}, err
	}
	view.Results = results
	view.Searched = strings.TrimSpace(term) != ""
	return view, nil
}

// Page fetches a generic CMS page.
func (s *ContentService) Page(ctx context.Context, slug string) (domain.ContentPage, error) {
	return s.repo.GetPageBySlug(ctx, slug)
}

// SubmitComment validates and forwards a comment. On success it also returns
// the pending record to show until moderation publishes the comment.
func (s *ContentService) SubmitComment(ctx context.Context, sub comments.Submission) (domain.CommentResult, domain.Comment, error) {
	if err := sub.Validate(); err != nil {
		metrics.RecordComment("invalid")
		return domain.CommentResult{}, domain.Comment{}, err
	}

	input := sub.Input()
	result, err := s.repo.CreateComment(ctx, input)
	if err != nil {
		metrics.RecordComment("error")
		return domain.CommentResult{}, domain.Comment{}, err
	}
	if !result.Success {
		metrics.RecordComment("rejected")
		return result, domain.Comment{}, ErrCommentRejected
	}

	metrics.RecordComment("accepted")
	return result, comments.Pending(input.Author, input.Content, s.nowFn()), nil
}

// SitemapPaths lists every recipe and category path. Recipes are drained
// page by page through a listing controller; categories are fetched alongside.
func (s *ContentService) SitemapPaths(ctx context.Context) ([]string, error) {
	var (
		recipes    []domain.RecipeSummary
		categories []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c := listing.New(s.guardedRecipes(), domain.Page[domain.RecipeSummary]{HasNextPage: true})
		defer c.Close()
		if err := c.Drain(gctx); err != nil {
			return fmt.Errorf("drain recipes: %w", err)
		}
		recipes = c.Snapshot().Items
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.repo.AllCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := []string{"/", "/recipes"}
	for _, c := range categories {
		if c.Slug != "" {
			paths = append(paths, "/category/"+c.Slug)
		}
	}
	for _, r := range recipes {
		if r.Slug != "" {
			paths = append(paths, "/recipes/"+r.Slug)
		}
	}
	return paths, nil
}

// guardedRecipes wraps ListRecipes so a CMS that repeats a cursor cannot keep
// a drain looping forever.
func (s *ContentService) guardedRecipes() listing.Fetcher[domain.RecipeSummary] {
	return func(ctx context.Context, cursor string) (domain.Page[domain.RecipeSummary], error) {
		page, err := s.repo.ListRecipes(ctx, cursor)
		if err != nil {
			return page, err
		}
		if page.HasNextPage && page.EndCursor == cursor {
			return domain.Page[domain.RecipeSummary]{}, fmt.Errorf("%w: %q", ErrCursorStalled, cursor)
		}
		return page, nil
	}
}
