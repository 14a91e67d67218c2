package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"edunews-backend/internal/domains/post/feed"
	"edunews-backend/internal/domains/post/model"
	"edunews-backend/internal/domains/post/service"
	"edunews-backend/internal/shared/response"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// Create handles POST /posts (multipart: title, category, description,
// anonymous, image).
func (h *PostHandler) Create(c *gin.Context) {
	req := model.CreatePostRequest{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Anonymous:   c.PostForm("anonymous") == "true",
	}

	data, contentType, err := readImageFile(c)
	if err != nil {
		model.HandlePostError(c, err)
		return
	}
	req.Image = data
	req.ImageContentType = contentType

	id, err := h.service.Create(c.Request.Context(), principalFrom(c), req)
	if model.HandlePostError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": id})
}

// Get handles GET /posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if model.HandlePostError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, post)
}

// Update handles PUT /posts/:id (multipart: text fields, optional image,
// remove_image flag).
func (h *PostHandler) Update(c *gin.Context) {
	req := model.UpdatePostRequest{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		Description: strings.TrimSpace(c.PostForm("description")),
		RemoveImage: c.PostForm("remove_image") == "true",
	}

	if _, err := c.FormFile("image"); err == nil {
		data, contentType, err := readImageFile(c)
		if err != nil {
			model.HandlePostError(c, err)
			return
		}
		req.Image = data
		req.ImageContentType = contentType
	}

	outcome, err := h.service.Update(c.Request.Context(), principalFrom(c), c.Param("id"), req)
	if model.HandlePostError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, outcome)
}

// Delete handles DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), principalFrom(c), c.Param("id"))
	if model.HandlePostError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// MyPosts handles GET /posts/mine?sort=newest|oldest&q=<text>. The sort and
// search parameters are explicit per request; nothing is remembered between
// calls.
func (h *PostHandler) MyPosts(c *gin.Context) {
	posts, err := h.service.MyPosts(c.Request.Context(), principalFrom(c).UserID)
	if model.HandlePostError(c, err) {
		return
	}

	dir := feed.ParseDirection(c.Query("sort"))
	view := feed.View(posts, dir, strings.TrimSpace(c.Query("q")))

	response.SuccessWithMeta(c, http.StatusOK, view, &response.Meta{Count: len(view)})
}

// Feed handles GET /posts: the paginated home feed.
func (h *PostHandler) Feed(c *gin.Context) {
	var req model.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid feed parameters")
		return
	}
	req.Normalize()

	posts, err := h.service.Feed(c.Request.Context(), req)
	if model.HandlePostError(c, err) {
		return
	}

	meta := &response.Meta{Limit: req.Limit, Count: len(posts)}
	if len(posts) == req.Limit {
		meta.NextCursor = model.EncodeCursor(posts[len(posts)-1])
	}
	response.SuccessWithMeta(c, http.StatusOK, posts, meta)
}

// Latest handles GET /posts/latest: the five-item banner feed.
func (h *PostHandler) Latest(c *gin.Context) {
	posts, err := h.service.Latest(c.Request.Context())
	if model.HandlePostError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, posts)
}

// ByCategory handles GET /posts/category/:category.
func (h *PostHandler) ByCategory(c *gin.Context) {
	posts, err := h.service.ByCategory(c.Request.Context(), c.Param("category"))
	if model.HandlePostError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, posts)
}

// Categories handles GET /categories.
func (h *PostHandler) Categories(c *gin.Context) {
	response.Success(c, http.StatusOK, model.Categories)
}

func principalFrom(c *gin.Context) service.Principal {
	return service.Principal{
		UserID: c.GetString("user_id"),
		Name:   c.GetString("user_name"),
	}
}

// readImageFile pulls the uploaded image into memory, rejecting oversized
// files before they are read.
func readImageFile(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, "", model.ErrImageRequired
	}
	if fileHeader.Size > model.MaxImageBytes {
		return nil, "", model.ErrImageTooLarge
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", model.ErrInvalidImage
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, model.MaxImageBytes+1))
	if err != nil {
		return nil, "", model.ErrInvalidImage
	}
	if int64(len(data)) > model.MaxImageBytes {
		return nil, "", model.ErrImageTooLarge
	}

	return data, fileHeader.Header.Get("Content-Type"), nil
}
