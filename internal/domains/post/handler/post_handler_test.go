package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edunews-backend/internal/domains/post/model"
	"edunews-backend/internal/domains/post/service"
)

// stubService lets each test pin just the method it exercises.
type stubService struct {
	createFn  func(ctx context.Context, p service.Principal, req model.CreatePostRequest) (string, error)
	getFn     func(ctx context.Context, id string) (*model.Post, error)
	updateFn  func(ctx context.Context, p service.Principal, id string, req model.UpdatePostRequest) (*model.UpdateOutcome, error)
	deleteFn  func(ctx context.Context, p service.Principal, id string) error
	myPostsFn func(ctx context.Context, userID string) ([]model.Post, error)
	feedFn    func(ctx context.Context, req model.FeedRequest) ([]model.Post, error)
}

func (s *stubService) Create(ctx context.Context, p service.Principal, req model.CreatePostRequest) (string, error) {
	return s.createFn(ctx, p, req)
}

func (s *stubService) Get(ctx context.Context, id string) (*model.Post, error) {
	return s.getFn(ctx, id)
}

func (s *stubService) Update(ctx context.Context, p service.Principal, id string, req model.UpdatePostRequest) (*model.UpdateOutcome, error) {
	return s.updateFn(ctx, p, id, req)
}

func (s *stubService) Delete(ctx context.Context, p service.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}

func (s *stubService) MyPosts(ctx context.Context, userID string) ([]model.Post, error) {
	return s.myPostsFn(ctx, userID)
}

func (s *stubService) Feed(ctx context.Context, req model.FeedRequest) ([]model.Post, error) {
	return s.feedFn(ctx, req)
}

func (s *stubService) Latest(ctx context.Context) ([]model.Post, error) {
	return nil, nil
}

func (s *stubService) ByCategory(ctx context.Context, category string) ([]model.Post, error) {
	return nil, nil
}

func (s *stubService) SweepOrphanImages(ctx context.Context, olderThan time.Duration) (int, error) {
	return 0, nil
}

func newRouter(svc service.PostService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPostHandler(svc)

	fakeAuth := func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Set("user_name", "Alice")
	}

	r := gin.New()
	r.POST("/posts", fakeAuth, h.Create)
	r.GET("/posts", h.Feed)
	r.GET("/posts/mine", fakeAuth, h.MyPosts)
	r.GET("/posts/:id", h.Get)
	r.PUT("/posts/:id", fakeAuth, h.Update)
	r.DELETE("/posts/:id", fakeAuth, h.Delete)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta *struct {
		Limit      int    `json:"limit"`
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func multipartBody(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte{0x89, 'P', 'N', 'G'})
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestCreatePassesTrimmedFormAndPrincipal(t *testing.T) {
	var gotReq model.CreatePostRequest
	var gotPrincipal service.Principal
	svc := &stubService{
		createFn: func(ctx context.Context, p service.Principal, req model.CreatePostRequest) (string, error) {
			gotPrincipal, gotReq = p, req
			return "p1", nil
		},
	}
	r := newRouter(svc)

	body, ct := multipartBody(t, map[string]string{
		"title":       "  Exam schedule  ",
		"category":    "Education",
		"description": "Finals start Monday.",
		"anonymous":   "true",
	}, true)

	w, env := doRequest(t, r, http.MethodPost, "/posts", body, ct)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	assert.Equal(t, "Exam schedule", gotReq.Title)
	assert.True(t, gotReq.Anonymous)
	assert.NotEmpty(t, gotReq.Image)
	assert.Equal(t, "u1", gotPrincipal.UserID)
	assert.Equal(t, "Alice", gotPrincipal.Name)
}

func TestCreateWithoutImageIsRejected(t *testing.T) {
	svc := &stubService{
		createFn: func(ctx context.Context, p service.Principal, req model.CreatePostRequest) (string, error) {
			t.Fatal("service must not be called")
			return "", nil
		},
	}
	r := newRouter(svc)

	body, ct := multipartBody(t, map[string]string{"title": "x"}, false)
	w, env := doRequest(t, r, http.MethodPost, "/posts", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "IMAGE_REQUIRED", env.Error.Code)
}

func TestGetNotFound(t *testing.T) {
	svc := &stubService{
		getFn: func(ctx context.Context, id string) (*model.Post, error) {
			return nil, model.ErrPostNotFound
		},
	}
	r := newRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/posts/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "POST_NOT_FOUND", env.Error.Code)
}

func TestUpdateForeignPostIsForbidden(t *testing.T) {
	svc := &stubService{
		updateFn: func(ctx context.Context, p service.Principal, id string, req model.UpdatePostRequest) (*model.UpdateOutcome, error) {
			return nil, model.ErrNotPostOwner
		},
	}
	r := newRouter(svc)

	body, ct := multipartBody(t, map[string]string{
		"title":       "t",
		"category":    "Sports",
		"description": "d",
	}, false)
	w, env := doRequest(t, r, http.MethodPut, "/posts/p1", body, ct)

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_POST_OWNER", env.Error.Code)
}

func TestDelete(t *testing.T) {
	var gotID string
	svc := &stubService{
		deleteFn: func(ctx context.Context, p service.Principal, id string) error {
			gotID = id
			return nil
		},
	}
	r := newRouter(svc)

	w, env := doRequest(t, r, http.MethodDelete, "/posts/p1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "p1", gotID)
}

func TestMyPostsAppliesSortAndSearch(t *testing.T) {
	svc := &stubService{
		myPostsFn: func(ctx context.Context, userID string) ([]model.Post, error) {
			return []model.Post{
				{Title: "library news", PostDate: "2024-01-02 10:00:00"},
				{Title: "sports day", PostDate: "2024-01-04 10:00:00"},
				{Title: "Library hours", PostDate: "2024-01-05 09:00:00"},
			}, nil
		},
	}
	r := newRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/posts/mine?sort=oldest&q=library", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var posts []model.Post
	require.NoError(t, json.Unmarshal(env.Data, &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "library news", posts[0].Title)
	assert.Equal(t, "Library hours", posts[1].Title)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Count)
}

func TestFeedPaginationCursor(t *testing.T) {
	page := make([]model.Post, 25)
	for i := range page {
		page[i] = model.Post{ID: "p", PostDate: "2024-01-01 00:00:00"}
	}
	page[24].ID = "p24"
	page[24].PostDate = "2023-12-30 08:00:00"

	var gotReq model.FeedRequest
	svc := &stubService{
		feedFn: func(ctx context.Context, req model.FeedRequest) ([]model.Post, error) {
			gotReq = req
			return page, nil
		},
	}
	r := newRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/posts?limit=0", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 25, gotReq.Limit)

	require.NotNil(t, env.Meta)
	assert.Equal(t, 25, env.Meta.Count)
	assert.Equal(t, model.EncodeCursor(page[24]), env.Meta.NextCursor)
}

func TestFeedShortPageHasNoCursor(t *testing.T) {
	svc := &stubService{
		feedFn: func(ctx context.Context, req model.FeedRequest) ([]model.Post, error) {
			return []model.Post{{ID: "p1"}}, nil
		},
	}
	r := newRouter(svc)

	_, env := doRequest(t, r, http.MethodGet, "/posts", nil, "")
	require.NotNil(t, env.Meta)
	assert.Empty(t, env.Meta.NextCursor)
}
