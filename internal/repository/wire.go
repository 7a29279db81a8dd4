package repository

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/foodiefusion/internal/domain"
)

// Wire types mirror the GraphQL response shapes. Optional members are
// pointers so a missing field and an empty one can be told apart; the
// conversions below apply the empty defaults.

type wireImageNode struct {
	SourceURL string `json:"sourceUrl"`
	AltText   string `json:"altText"`
}

type wireImage struct {
	Node *wireImageNode `json:"node"`
}

func (w *wireImage) url() string {
	if w == nil || w.Node == nil {
		return ""
	}
	return w.Node.SourceURL
}

func (w *wireImage) toDomain() *domain.Image {
	if w == nil || w.Node == nil || w.Node.SourceURL == "" {
		return nil
	}
	return &domain.Image{SourceURL: w.Node.SourceURL, AltText: w.Node.AltText}
}

type wireCategoryRefs struct {
	Nodes []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"nodes"`
}

func (w *wireCategoryRefs) toDomain() []domain.CategoryRef {
	if w == nil {
		return []domain.CategoryRef{}
	}
	refs := make([]domain.CategoryRef, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		refs = append(refs, domain.CategoryRef{Name: n.Name, Slug: n.Slug})
	}
	return refs
}

type wireRecipeCard struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	FeaturedImage *wireImage        `json:"featuredImage"`
	Categories    *wireCategoryRefs `json:"categories"`
	RecipeFields  *struct {
		Summary *string `json:"summary"`
	} `json:"recipeFields"`
}

func (w wireRecipeCard) toDomain() domain.RecipeSummary {
	summary := ""
	if w.RecipeFields != nil && w.RecipeFields.Summary != nil {
		summary = *w.RecipeFields.Summary
	}
	return domain.RecipeSummary{
		ID:         w.ID,
		Title:      w.Title,
		Slug:       w.Slug,
		ImageURL:   w.FeaturedImage.url(),
		Summary:    summary,
		Categories: w.Categories.toDomain(),
	}
}

type wireRecipeConnection struct {
	PageInfo *struct {
		HasNextPage bool    `json:"hasNextPage"`
		EndCursor   *string `json:"endCursor"`
	} `json:"pageInfo"`
	Nodes []wireRecipeCard `json:"nodes"`
}

func (w *wireRecipeConnection) summaries() []domain.RecipeSummary {
	if w == nil {
		return []domain.RecipeSummary{}
	}
	items := make([]domain.RecipeSummary, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		items = append(items, n.toDomain())
	}
	return items
}

func (w *wireRecipeConnection) page() domain.Page[domain.RecipeSummary] {
	page := domain.Page[domain.RecipeSummary]{Items: w.summaries()}
	if w != nil && w.PageInfo != nil {
		page.HasNextPage = w.PageInfo.HasNextPage
		if w.PageInfo.EndCursor != nil {
			page.EndCursor = *w.PageInfo.EndCursor
		}
	}
	return page
}

type wireComment struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Author  *struct {
		Node *struct {
			Name   string `json:"name"`
			Avatar *struct {
				URL string `json:"url"`
			} `json:"avatar"`
		} `json:"node"`
	} `json:"author"`
}

func (w wireComment) toDomain() domain.Comment {
	c := domain.Comment{
		ID:      w.ID,
		Content: w.Content,
		Date:    parseCMSDate(w.Date),
	}
	if w.Author != nil && w.Author.Node != nil {
		c.AuthorName = w.Author.Node.Name
		if w.Author.Node.Avatar != nil {
			c.AvatarURL = w.Author.Node.Avatar.URL
		}
	}
	return c
}

type wireRecipeFields struct {
	Summary      string     `json:"summary"`
	CookingTime  string     `json:"cookingTime"`
	PrepTime     string     `json:"prepTime"`
	Servings     flexString `json:"servings"`
	Difficulty   string     `json:"difficulty"`
	Ingredients  string     `json:"ingredients"`
	Instructions string     `json:"instructions"`
	Notes        string     `json:"notes"`
	Rating       flexNumber `json:"rating"`
	RatingCount  flexNumber `json:"ratingCount"`
	Section1     string     `json:"section1"`
	Section2     string     `json:"section2"`
	TotalTime    string     `json:"totaltime"`
	Course       string     `json:"course"`
	Cuisine      string     `json:"cuisine"`
	AuthorName   string     `json:"authorname"`
	Equipment    string     `json:"equipment"`
	FAQ          string     `json:"faq"`
}

type wireRecipe struct {
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Date          string            `json:"date"`
	Content       string            `json:"content"`
	DatabaseID    int               `json:"databaseId"`
	FeaturedImage *wireImage        `json:"featuredImage"`
	Categories    *wireCategoryRefs `json:"categories"`
	RecipeFields  *wireRecipeFields `json:"recipeFields"`
	Comments      *struct {
		Nodes []wireComment `json:"nodes"`
	} `json:"comments"`
}

func (w wireRecipe) toDomain() domain.Recipe {
	recipe := domain.Recipe{
		DatabaseID: w.DatabaseID,
		Title:      w.Title,
		Slug:       w.Slug,
		Content:    w.Content,
		Date:       parseCMSDate(w.Date),
		ImageURL:   w.FeaturedImage.url(),
		Categories: w.Categories.toDomain(),
		Comments:   []domain.Comment{},
	}
	if f := w.RecipeFields; f != nil {
		recipe.Fields = domain.RecipeFields{
			Summary:      f.Summary,
			CookingTime:  f.CookingTime,
			PrepTime:     f.PrepTime,
			TotalTime:    f.TotalTime,
			Servings:     string(f.Servings),
			Difficulty:   f.Difficulty,
			Ingredients:  f.Ingredients,
			Instructions: f.Instructions,
			Notes:        f.Notes,
			Equipment:    f.Equipment,
			FAQ:          f.FAQ,
			Rating:       float64(f.Rating),
			RatingCount:  int(f.RatingCount),
			Section1:     f.Section1,
			Section2:     f.Section2,
			Course:       f.Course,
			Cuisine:      f.Cuisine,
			AuthorName:   f.AuthorName,
		}
	}
	if w.Comments != nil {
		for _, c := range w.Comments.Nodes {
			recipe.Comments = append(recipe.Comments, c.toDomain())
		}
	}
	return recipe
}

type wireCategory struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Count          *int   `json:"count"`
	CategoryFields *struct {
		CategoryImage *wireImage `json:"categoryImage"`
	} `json:"categoryFields"`
}

func (w wireCategory) toDomain() domain.Category {
	c := domain.Category{Name: w.Name, Slug: w.Slug}
	if w.Count != nil {
		c.Count = *w.Count
	}
	if w.CategoryFields != nil {
		c.ImageURL = w.CategoryFields.CategoryImage.url()
	}
	return c
}

type wirePage struct {
	Title       string `json:"title"`
	PageContent *struct {
		Section1Content       string     `json:"section1Content"`
		Section1Image         *wireImage `json:"section1Image"`
		Section2Content       string     `json:"section2Content"`
		Section2ImagePosition string     `json:"section2ImagePosition"`
		Section2Image         *wireImage `json:"section2Image"`
		Section3Content       string     `json:"section3Content"`
	} `json:"pageContent"`
}

// flexNumber accepts a JSON number, a numeric string, or null. Custom
// field plugins are inconsistent about which one they emit.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexNumber(v)
	return nil
}

// flexString accepts a JSON string, a number, or null and keeps its text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(b)
	}
	return nil
}

var cmsDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCMSDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range cmsDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
