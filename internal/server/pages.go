package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/foodiefusion/internal/comments"
	"github.com/vanshika/foodiefusion/internal/domain"
	"github.com/vanshika/foodiefusion/internal/graphql"
	"github.com/vanshika/foodiefusion/internal/listing"
	"github.com/vanshika/foodiefusion/internal/service"
	"github.com/vanshika/foodiefusion/internal/sitemap"
)

const (
	commentThanks  = "Thanks! Your comment is awaiting moderation."
	commentMissing = "Please fill in your name, email and comment."
	commentFailed  = "There was an error posting your comment. Please try again."
	loadMoreFailed = "Couldn't load more recipes."
)

// PageHandlers renders the HTML pages of the site.
type PageHandlers struct {
	logger   *slog.Logger
	service  *service.ContentService
	renderer *Renderer
	baseURL  string
}

// NewPageHandlers constructs a PageHandlers instance.
func NewPageHandlers(logger *slog.Logger, svc *service.ContentService, renderer *Renderer, baseURL string) *PageHandlers {
	return &PageHandlers{
		logger:   logger,
		service:  svc,
		renderer: renderer,
		baseURL:  baseURL,
	}
}

// listView is a listing state plus the error shown beside its retry control.
type listView struct {
	listing.State[domain.RecipeSummary]
	Error string
}

// MoreURL is the fragment URL for the next page. The cursor is opaque and
// must reach the CMS byte for byte, so it is query-encoded here.
func (v listView) MoreURL() string {
	return "/recipes/more?" + url.Values{"after": {v.Cursor}}.Encode()
}

type homePage struct {
	service.HomeView
	Recipes listView
}

type recipePage struct {
	View          service.RecipeView
	Form          comments.Submission
	CommentNotice string
	CommentError  string
}

func (h *PageHandlers) home(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Home(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "home", pageData{
		Description: "Recipes from " + h.service.SiteName(),
		Data:        homePage{HomeView: view, Recipes: listView{State: view.Recipes}},
	})
}

func (h *PageHandlers) recipes(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Recipes(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "recipes", pageData{Title: "All Recipes", Data: listView{State: state}})
}

func (h *PageHandlers) moreRecipes(w http.ResponseWriter, r *http.Request) {
	after := r.URL.Query().Get("after")
	if strings.TrimSpace(after) == "" {
		http.Error(w, "after cursor is required", http.StatusBadRequest)
		return
	}

	state, err := h.service.MoreRecipes(r.Context(), after)
	status := http.StatusOK
	view := listView{State: state}
	if err != nil {
		h.logger.Warn("load more failed", "error", err, "kind", graphql.Kind(err), "cursor", after)
		status = http.StatusBadGateway
		view.Error = loadMoreFailed
	}
	if err := h.renderer.Fragment(w, status, "more-fragment", view); err != nil {
		h.logger.Error("render fragment failed", "error", err)
	}
}

func (h *PageHandlers) recipe(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RecipeDetail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderRecipe(w, r, http.StatusOK, recipePage{View: view})
}

func (h *PageHandlers) postComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	view, err := h.service.RecipeDetail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	postID, _ := strconv.Atoi(r.PostFormValue("postId"))
	if postID != view.Recipe.DatabaseID {
		postID = view.Recipe.DatabaseID
	}
	sub := comments.Submission{
		PostID:      postID,
		Author:      r.PostFormValue("author"),
		AuthorEmail: r.PostFormValue("email"),
		Content:     r.PostFormValue("content"),
	}

	page := recipePage{View: view, Form: sub}
	_, pending, err := h.service.SubmitComment(r.Context(), sub)
	switch {
	case errors.Is(err, comments.ErrMissingFields):
		page.CommentError = commentMissing
		h.renderRecipe(w, r, http.StatusBadRequest, page)
	case err != nil:
		h.logger.Error("comment submission failed", "error", err, "kind", graphql.Kind(err), "postId", postID)
		page.CommentError = commentFailed
		h.renderRecipe(w, r, http.StatusBadGateway, page)
	default:
		view.Comments.Prepend(pending)
		page.Form = comments.Submission{}
		page.CommentNotice = commentThanks
		h.renderRecipe(w, r, http.StatusOK, page)
	}
}

func (h *PageHandlers) renderRecipe(w http.ResponseWriter, r *http.Request, status int, page recipePage) {
	h.render(w, r, status, "recipe", pageData{
		Title:       page.View.Recipe.Title,
		Description: page.View.Description,
		Data:        page,
	})
}

func (h *PageHandlers) category(w http.ResponseWriter, r *http.Request) {
	cat, err := h.service.Category(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "category", pageData{Title: cat.Name, Data: cat})
}

func (h *PageHandlers) search(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	title := "Search"
	if view.Searched {
		title = "Search results for " + view.Term
	}
	h.render(w, r, http.StatusOK, "search", pageData{Title: title, Data: view})
}

func (h *PageHandlers) contentPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Page(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "page", pageData{Title: page.Title, Data: page})
}

func (h *PageHandlers) sitemap(w http.ResponseWriter, r *http.Request) {
	paths, err := h.service.SitemapPaths(r.Context())
	if err != nil {
		h.logger.Error("sitemap build failed", "error", err, "kind", graphql.Kind(err))
		http.Error(w, "sitemap unavailable", http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := sitemap.Write(&buf, sitemap.Build(h.baseURL, paths)); err != nil {
		h.logger.Error("sitemap encode failed", "error", err)
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *PageHandlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found", pageData{Title: "Not Found"})
}

// fail maps a fetch error onto the not-found page or the generic error page.
func (h *PageHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, graphql.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	h.logger.Error("page fetch failed",
		"error", err,
		"kind", graphql.Kind(err),
		"path", r.URL.Path,
	)
	h.render(w, r, http.StatusInternalServerError, "error", pageData{Title: "Error"})
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	data.Path = r.URL.RequestURI()
	if err := h.renderer.Page(w, status, name, data); err != nil {
		h.logger.Error("render failed", "error", err, "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
