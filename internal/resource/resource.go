// Package resource shapes entities into their external JSON representation.
//
// Relations appear only when the caller loaded them, and the can_edit /
// can_delete flags appear only when an actor is present. Nothing here
// touches the store.
package resource

import (
	"time"

	"blog-app/internal/domain"
	"blog-app/internal/policy"
)

// TimeLayout is the canonical timestamp format of every resource.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in TimeLayout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type UserResource struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type PostResource struct {
	ID            int64              `json:"id"`
	UserID        int64              `json:"user_id"`
	Title         string             `json:"title"`
	Content       string             `json:"content"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
	User          *UserResource      `json:"user,omitempty"`
	Comments      *[]CommentResource `json:"comments,omitempty"`
	CommentsCount *int               `json:"comments_count,omitempty"`
	CanEdit       *bool              `json:"can_edit,omitempty"`
	CanDelete     *bool              `json:"can_delete,omitempty"`
}

type CommentResource struct {
	ID        int64         `json:"id"`
	PostID    int64         `json:"post_id"`
	UserID    int64         `json:"user_id"`
	Comment   string        `json:"comment"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
	User      *UserResource `json:"user,omitempty"`
	Post      *PostResource `json:"post,omitempty"`
	CanEdit   *bool         `json:"can_edit,omitempty"`
	CanDelete *bool         `json:"can_delete,omitempty"`
}

// PageMeta describes the position of a page within a listing.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

type Collection[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func NewUser(user *domain.User) UserResource {
	resp := UserResource{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: FormatTime(user.CreatedAt),
		UpdatedAt: FormatTime(user.UpdatedAt),
	}
	if user.EmailVerifiedAt != nil {
		v := FormatTime(*user.EmailVerifiedAt)
		resp.EmailVerifiedAt = &v
	}
	return resp
}

func NewPost(post *domain.Post, actor *domain.User) PostResource {
	resp := PostResource{
		ID:        post.ID,
		UserID:    post.UserID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: FormatTime(post.CreatedAt),
		UpdatedAt: FormatTime(post.UpdatedAt),
	}
	if post.User != nil {
		u := NewUser(post.User)
		resp.User = &u
	}
	if post.Comments != nil {
		comments := NewComments(post.Comments, actor)
		resp.Comments = &comments
	}
	if post.CommentsCount != nil {
		n := *post.CommentsCount
		resp.CommentsCount = &n
	}
	if actor != nil {
		resp.CanEdit = boolPtr(policy.CanUpdate(actor, post))
		resp.CanDelete = boolPtr(policy.CanDelete(actor, post))
	}
	return resp
}

func NewPosts(posts []domain.Post, actor *domain.User) []PostResource {
	resp := make([]PostResource, len(posts))
	for i := range posts {
		resp[i] = NewPost(&posts[i], actor)
	}
	return resp
}

func NewComment(comment *domain.Comment, actor *domain.User) CommentResource {
	resp := CommentResource{
		ID:        comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Comment:   comment.Comment,
		CreatedAt: FormatTime(comment.CreatedAt),
		UpdatedAt: FormatTime(comment.UpdatedAt),
	}
	if comment.User != nil {
		u := NewUser(comment.User)
		resp.User = &u
	}
	if comment.Post != nil {
		p := NewPost(comment.Post, actor)
		resp.Post = &p
	}
	if actor != nil {
		resp.CanEdit = boolPtr(policy.CanUpdate(actor, comment))
		resp.CanDelete = boolPtr(policy.CanDelete(actor, comment))
	}
	return resp
}

func NewComments(comments []domain.Comment, actor *domain.User) []CommentResource {
	resp := make([]CommentResource, len(comments))
	for i := range comments {
		resp[i] = NewComment(&comments[i], actor)
	}
	return resp
}

func NewPostPage(page domain.Page[domain.Post], actor *domain.User) Collection[PostResource] {
	return Collection[PostResource]{
		Data: NewPosts(page.Items, actor),
		Meta: newMeta(page.CurrentPage, page.PerPage, page.Total, page.LastPage()),
	}
}

func NewCommentPage(page domain.Page[domain.Comment], actor *domain.User) Collection[CommentResource] {
	return Collection[CommentResource]{
		Data: NewComments(page.Items, actor),
		Meta: newMeta(page.CurrentPage, page.PerPage, page.Total, page.LastPage()),
	}
}

func newMeta(current, perPage, total, last int) PageMeta {
	return PageMeta{CurrentPage: current, PerPage: perPage, Total: total, LastPage: last}
}

func boolPtr(v bool) *bool { return &v }
