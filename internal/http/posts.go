package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-app/internal/domain"
	"blog-app/internal/policy"
	"blog-app/internal/resource"
	"blog-app/internal/service"
)

type postRequest struct {
	Title   string `json:"title" form:"title" binding:"required,max=255"`
	Content string `json:"content" form:"content" binding:"required"`
}

func (r postRequest) input() service.PostInput {
	return service.PostInput{Title: r.Title, Content: r.Content}
}

func postPath(id int64) string {
	return fmt.Sprintf("/posts/%d", id)
}

// resolvePost loads the post named by the :id path parameter.
func (h *Handler) resolvePost(c *gin.Context) (*domain.Post, error) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, &domain.NotFoundError{Entity: "post"}
	}
	return h.posts.Get(c.Request.Context(), id)
}

func (h *Handler) listPosts(c *gin.Context) {
	actor := actorFrom(c)
	if err := policy.Authorize(policy.CanViewAny(actor), "view", "posts"); err != nil {
		h.fail(c, err, "/")
		return
	}

	posts, err := h.posts.List(c.Request.Context(), queryPage(c))
	if err != nil {
		h.fail(c, err, "/")
		return
	}

	collection := resource.NewPostPage(posts, actor)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, collection)
		return
	}
	h.render(c, http.StatusOK, "posts/Index", gin.H{"posts": collection})
}

func (h *Handler) createPostForm(c *gin.Context) {
	if err := policy.Authorize(policy.CanCreate(actorFrom(c)), "create", "post"); err != nil {
		h.fail(c, err, "/posts")
		return
	}
	h.render(c, http.StatusOK, "posts/Create", nil)
}

func (h *Handler) showPost(c *gin.Context) {
	actor := actorFrom(c)
	post, err := h.resolvePost(c)
	if err != nil {
		h.fail(c, err, "/posts")
		return
	}
	if err := policy.Authorize(policy.CanView(actor, post), "view", "post"); err != nil {
		h.fail(c, err, "/posts")
		return
	}

	comments, err := h.posts.Comments(c.Request.Context(), post.ID, queryPage(c))
	if err != nil {
		h.fail(c, err, "/posts")
		return
	}

	h.render(c, http.StatusOK, "posts/Show", gin.H{
		"post":     resource.NewPost(post, actor),
		"comments": resource.NewCommentPage(comments, actor),
	})
}

func (h *Handler) editPostForm(c *gin.Context) {
	actor := actorFrom(c)
	post, err := h.resolvePost(c)
	if err != nil {
		h.fail(c, err, "/posts")
		return
	}
	if err := policy.Authorize(policy.CanUpdate(actor, post), "update", "post"); err != nil {
		h.fail(c, err, postPath(post.ID))
		return
	}

	h.render(c, http.StatusOK, "posts/Edit", gin.H{"post": resource.NewPost(post, actor)})
}

func (h *Handler) storePost(c *gin.Context) {
	actor := actorFrom(c)
	if err := policy.Authorize(policy.CanCreate(actor), "create", "post"); err != nil {
		h.fail(c, err, "/posts")
		return
	}

	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, bindingError(err), "/posts/create")
		return
	}

	post, err := h.posts.Create(c.Request.Context(), actor, req.input())
	if err != nil {
		h.fail(c, err, "/posts")
		return
	}

	h.done(c, http.StatusCreated, resource.NewPost(post, actor), "/posts", "Post created successfully!")
}

func (h *Handler) updatePost(c *gin.Context) {
	actor := actorFrom(c)
	post, err := h.resolvePost(c)
	if err != nil {
		h.fail(c, err, "/posts")
		return
	}
	target := postPath(post.ID)
	if err := policy.Authorize(policy.CanUpdate(actor, post), "update", "post"); err != nil {
		h.fail(c, err, target)
		return
	}

	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, bindingError(err), target+"/edit")
		return
	}

	updated, err := h.posts.Update(c.Request.Context(), post, req.input())
	if err != nil {
		h.fail(c, err, target)
		return
	}

	h.done(c, http.StatusOK, resource.NewPost(updated, actor), target, "Post updated successfully!")
}

func (h *Handler) destroyPost(c *gin.Context) {
	actor := actorFrom(c)
	post, err := h.resolvePost(c)
	if err != nil {
		h.fail(c, err, "/posts")
		return
	}
	if err := policy.Authorize(policy.CanDelete(actor, post), "delete", "post"); err != nil {
		h.fail(c, err, postPath(post.ID))
		return
	}

	if err := h.posts.Delete(c.Request.Context(), post); err != nil {
		h.fail(c, err, "/posts")
		return
	}

	h.done(c, http.StatusOK, gin.H{"message": "Post deleted successfully!"}, "/posts", "Post deleted successfully!")
}
