package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-app/internal/domain"
	"blog-app/internal/policy"
	"blog-app/internal/resource"
	"blog-app/internal/service"
)

type commentRequest struct {
	Comment string `json:"comment" form:"comment" binding:"required"`
}

func (h *Handler) storeComment(c *gin.Context) {
	actor := actorFrom(c)
	post, err := h.resolvePost(c)
	if err != nil {
		h.fail(c, err, "/posts")
		return
	}
	target := postPath(post.ID)
	if err := policy.Authorize(policy.CanCreate(actor), "create", "comment"); err != nil {
		h.fail(c, err, target)
		return
	}

	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, bindingError(err), target)
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), actor, post, service.CommentInput{Comment: req.Comment})
	if err != nil {
		h.fail(c, err, target)
		return
	}

	h.done(c, http.StatusCreated, resource.NewComment(comment, actor), target, "Comment created successfully.")
}

func (h *Handler) destroyComment(c *gin.Context) {
	actor := actorFrom(c)
	id, ok := pathID(c, "id")
	if !ok {
		h.fail(c, &domain.NotFoundError{Entity: "comment"}, "/posts")
		return
	}
	comment, err := h.comments.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/posts")
		return
	}
	// resolved before the write so the failure redirect never depends on it
	target := postPath(comment.PostID)
	if err := policy.Authorize(policy.CanDelete(actor, comment), "delete", "comment"); err != nil {
		h.fail(c, err, target)
		return
	}

	if err := h.comments.Delete(c.Request.Context(), comment); err != nil {
		h.fail(c, err, target)
		return
	}

	h.done(c, http.StatusOK, gin.H{"message": "Comment deleted successfully!"}, target, "Comment deleted successfully!")
}
