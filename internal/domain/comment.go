package domain

import "time"

// Comment is a published or locally pending comment on a recipe.
type Comment struct {
	ID         string
	Content    string
	Date       time.Time
	AuthorName string
	AvatarURL  string
	// Pending marks a comment synthesized locally after submission that the
	// CMS has not published yet.
	Pending bool
}

// CommentInput is the payload needed to create a comment.
type CommentInput struct {
	PostID      int
	Author      string
	AuthorEmail string
	Content     string
}

// CommentResult is the CMS answer to a create request.
type CommentResult struct {
	Success bool
	ID      string
}
