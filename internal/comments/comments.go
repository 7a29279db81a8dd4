// Package comments validates comment submissions and builds the pending
// records shown to a commenter before moderation publishes their comment.
package comments

import (
	"errors"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/foodiefusion/internal/domain"
)

// PlaceholderAvatar is shown for comments that have no CMS author record yet.
const PlaceholderAvatar = "/default-avatar.png"

// ErrMissingFields is returned when any required submission field is empty.
var ErrMissingFields = errors.New("missing required fields")

// Submission is a comment as posted by a reader.
type Submission struct {
	PostID      int    `json:"postId"`
	Author      string `json:"author"`
	AuthorEmail string `json:"authorEmail"`
	Content     string `json:"content"`
}

// Validate requires every field to be present.
func (s Submission) Validate() error {
	if s.PostID <= 0 ||
		strings.TrimSpace(s.Author) == "" ||
		strings.TrimSpace(s.AuthorEmail) == "" ||
		strings.TrimSpace(s.Content) == "" {
		return ErrMissingFields
	}
	return nil
}

// Input converts the submission for the repository.
func (s Submission) Input() domain.CommentInput {
	return domain.CommentInput{
		PostID:      s.PostID,
		Author:      strings.TrimSpace(s.Author),
		AuthorEmail: strings.TrimSpace(s.AuthorEmail),
		Content:     strings.TrimSpace(s.Content),
	}
}

// Pending synthesizes the local record for a just-accepted comment. The text
// is escaped and wrapped in a paragraph to match how the CMS formats content.
func Pending(author, content string, now time.Time) domain.Comment {
	return domain.Comment{
		ID:         "temp-" + uuid.NewString(),
		Content:    "<p>" + html.EscapeString(strings.TrimSpace(content)) + "</p>",
		Date:       now.UTC(),
		AuthorName: strings.TrimSpace(author),
		AvatarURL:  PlaceholderAvatar,
		Pending:    true,
	}
}

// Thread is the ordered comment list shown under a recipe.
type Thread struct {
	comments []domain.Comment
}

// NewThread copies existing into a new thread.
func NewThread(existing []domain.Comment) *Thread {
	return &Thread{comments: append([]domain.Comment(nil), existing...)}
}

// Prepend puts c at the top of the thread.
func (t *Thread) Prepend(c domain.Comment) {
	t.comments = append([]domain.Comment{c}, t.comments...)
}

// Comments returns the thread in display order.
func (t *Thread) Comments() []domain.Comment {
	return append([]domain.Comment{}, t.comments...)
}

func (t *Thread) Len() int {
	return len(t.comments)
}

// Heading renders "1 Comment" or "N Comments".
func (t *Thread) Heading() string {
	if t.Len() == 1 {
		return "1 Comment"
	}
	return strconv.Itoa(t.Len()) + " Comments"
}
