package domain

import "time"

// Post is a blog entry owned by exactly one user.
//
// Relation fields are only populated when explicitly loaded: a nil User or
// Comments means "not loaded", a non-nil empty Comments means "loaded, none".
type Post struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	User          *User
	Comments      []Comment
	CommentsCount *int
}

// OwnerID returns the id of the user that owns the post.
func (p *Post) OwnerID() int64 { return p.UserID }

// Comment is a remark left by a user on a post.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time

	User *User
	Post *Post
}

// OwnerID returns the id of the user that wrote the comment.
func (c *Comment) OwnerID() int64 { return c.UserID }
