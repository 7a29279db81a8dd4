package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vanshika/foodiefusion/internal/comments"
	"github.com/vanshika/foodiefusion/internal/graphql"
	"github.com/vanshika/foodiefusion/internal/service"
)

const (
	maxBodyBytes = 64 << 10

	// RevalidationHeader carries the shared secret for cache revalidation.
	RevalidationHeader = "X-Revalidation-Token"
)

// CachePurger drops cached CMS responses.
type CachePurger interface {
	Purge() int
}

// APIHandlers exposes the JSON endpoints used by the CMS and by scripted clients.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.ContentService
	cache   CachePurger
	token   string
	now     func() time.Time
}

// NewAPIHandlers constructs an APIHandlers instance. An empty token rejects
// every revalidation request.
func NewAPIHandlers(logger *slog.Logger, svc *service.ContentService, cache CachePurger, token string) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
		cache:   cache,
		token:   token,
		now:     time.Now,
	}
}

type createCommentResponse struct {
	Success bool            `json:"success"`
	Comment *createdComment `json:"comment,omitempty"`
	Message string          `json:"message,omitempty"`
}

type createdComment struct {
	ID string `json:"id"`
}

func (h *APIHandlers) createComment(w http.ResponseWriter, r *http.Request) {
	var req comments.Submission
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, _, err := h.service.SubmitComment(r.Context(), req)
	switch {
	case errors.Is(err, comments.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, service.ErrCommentRejected):
		h.logger.Warn("comment rejected", "postId", req.PostID)
		respondJSON(w, http.StatusInternalServerError, createCommentResponse{Message: "Failed to create comment."})
	case err != nil:
		h.logger.Error("failed to create comment", "error", err, "kind", graphql.Kind(err), "postId", req.PostID)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	default:
		respondJSON(w, http.StatusOK, createCommentResponse{
			Success: true,
			Comment: &createdComment{ID: result.ID},
		})
	}
}

type revalidateRequest struct {
	Path string `json:"path"`
}

func (h *APIHandlers) revalidate(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r.Header.Get(RevalidationHeader)) {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req revalidateRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, "Path is required")
		return
	}

	purged := 0
	if h.cache != nil {
		purged = h.cache.Purge()
	}
	h.logger.Info("cache revalidated", "path", req.Path, "purged", purged)

	respondJSON(w, http.StatusOK, map[string]any{
		"revalidated": true,
		"now":         h.now().UnixMilli(),
	})
}

func (h *APIHandlers) authorized(got string) bool {
	if h.token == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"message": msg,
	})
}
