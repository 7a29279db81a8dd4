package recipe

import (
	"time"

	"github.com/vanshika/foodiefusion/internal/domain"
	"github.com/vanshika/foodiefusion/internal/richtext"
)

// Schema is the schema.org Recipe document embedded as JSON-LD on recipe pages.
type Schema struct {
	Context            string           `json:"@context"`
	Type               string           `json:"@type"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	Image              []string         `json:"image,omitempty"`
	Author             Person           `json:"author"`
	DatePublished      string           `json:"datePublished,omitempty"`
	PrepTime           string           `json:"prepTime,omitempty"`
	CookTime           string           `json:"cookTime,omitempty"`
	TotalTime          string           `json:"totalTime,omitempty"`
	RecipeYield        string           `json:"recipeYield,omitempty"`
	RecipeCategory     string           `json:"recipeCategory,omitempty"`
	RecipeCuisine      string           `json:"recipeCuisine,omitempty"`
	RecipeIngredient   []string         `json:"recipeIngredient"`
	RecipeInstructions []HowToStep      `json:"recipeInstructions"`
	AggregateRating    *AggregateRating `json:"aggregateRating,omitempty"`
	MainEntity         []Question       `json:"mainEntity,omitempty"`
}

type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type HowToStep struct {
	Type     string `json:"@type"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type AggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	RatingCount int     `json:"ratingCount"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// BuildSchema assembles the JSON-LD document for r. The publisher name is
// used as the author. Ratings without votes are omitted.
func BuildSchema(r domain.Recipe, publisher string) Schema {
	f := r.Fields
	s := Schema{
		Context:          "https://schema.org/",
		Type:             "Recipe",
		Name:             r.Title,
		Description:      richtext.PlainText(f.Summary),
		Author:           Person{Type: "Person", Name: publisher},
		PrepTime:         ISODuration(f.PrepTime),
		CookTime:         ISODuration(f.CookingTime),
		TotalTime:        ISODuration(f.TotalTime),
		RecipeYield:      f.Servings,
		RecipeCategory:   f.Course,
		RecipeCuisine:    f.Cuisine,
		RecipeIngredient: SplitLines(f.Ingredients),
	}
	if r.ImageURL != "" {
		s.Image = []string{r.ImageURL}
	}
	if !r.Date.IsZero() {
		s.DatePublished = r.Date.Format(time.RFC3339)
	}

	steps := SplitLines(f.Instructions)
	s.RecipeInstructions = make([]HowToStep, 0, len(steps))
	for i, step := range steps {
		s.RecipeInstructions = append(s.RecipeInstructions, HowToStep{Type: "HowToStep", Text: step, Position: i + 1})
	}

	if f.RatingCount > 0 {
		s.AggregateRating = &AggregateRating{Type: "AggregateRating", RatingValue: f.Rating, RatingCount: f.RatingCount}
	}

	for _, qa := range richtext.ParseFAQ(f.FAQ) {
		s.MainEntity = append(s.MainEntity, Question{
			Type:           "Question",
			Name:           qa.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: qa.Answer},
		})
	}
	return s
}
