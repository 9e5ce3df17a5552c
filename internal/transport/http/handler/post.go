package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"nobzo-blog/internal/app"
	"nobzo-blog/internal/model"
	"nobzo-blog/internal/transport/http/middleware"
	"nobzo-blog/internal/transport/http/response"
	"nobzo-blog/internal/validation"
)

type PostHandler struct {
	postService *app.PostService
}

type postResponse struct {
	ID        uint             `json:"id"`
	Title     string           `json:"title"`
	Slug      string           `json:"slug"`
	Content   string           `json:"content"`
	Author    userResponse     `json:"author"`
	Status    model.PostStatus `json:"status"`
	Tags      []string         `json:"tags"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type paginationResponse struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type postListResponse struct {
	Posts      []postResponse     `json:"posts"`
	Pagination paginationResponse `json:"pagination"`
}

func NewPostHandler(postService *app.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) List(c *gin.Context) {
	var req app.ListPostsInput
	if err := bindQuery(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := validation.Struct(req); err != nil {
		_ = c.Error(err)
		return
	}
	q, err := req.Query()
	if err != nil {
		_ = c.Error(err)
		return
	}

	viewer, _ := middleware.IdentityFrom(c)
	page, err := h.postService.List(c.Request.Context(), viewer, q)
	if err != nil {
		_ = c.Error(err)
		return
	}

	posts := make([]postResponse, len(page.Posts))
	for i := range page.Posts {
		posts[i] = toPostResponse(&page.Posts[i])
	}
	response.OK(c, postListResponse{
		Posts: posts,
		Pagination: paginationResponse{
			Total: page.Total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: page.Pages,
		},
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		_ = c.Error(app.ErrTokenMissing)
		return
	}

	var req app.CreatePostInput
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		_ = c.Error(err)
		return
	}

	post, err := h.postService.Create(c.Request.Context(), *actor, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, "", toPostResponse(post))
}

func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.postService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, toPostResponse(post))
}

func (h *PostHandler) Update(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		_ = c.Error(app.ErrTokenMissing)
		return
	}
	id, err := postIDParam(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req app.UpdatePostInput
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		_ = c.Error(err)
		return
	}

	post, err := h.postService.Update(c.Request.Context(), *actor, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, toPostResponse(post))
}

func (h *PostHandler) Delete(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		_ = c.Error(app.ErrTokenMissing)
		return
	}
	id, err := postIDParam(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.postService.Delete(c.Request.Context(), *actor, id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Message(c, "Post soft deleted successfully")
}

func toPostResponse(post *model.Post) postResponse {
	return postResponse{
		ID:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Author:    toUserResponse(&post.Author),
		Status:    post.Status,
		Tags:      post.TagNames(),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
