package post

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Scribe/internal/api/handlers"
	"Scribe/internal/blogapi"
	"Scribe/internal/blogapi/blogapitest"
	"Scribe/internal/core/posts"
)

func newRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func seed(fake *blogapitest.Fake, n int, tag string) {
	for i := 1; i <= n; i++ {
		fake.AddPost(fmt.Sprintf("Post %d", i), "body", tag)
	}
}

func TestListHandler_Pages(t *testing.T) {
	fake := blogapitest.NewFake()
	seed(fake, 15, "react")
	handler := NewListHandler(fake)

	w := httptest.NewRecorder()
	handler.HandleList(w, newRequest(http.MethodGet, "/api/posts?search=react", "", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out ListOutput
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Len(t, out.Posts, 10)
	assert.Equal(t, "react", out.Search)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 2, out.TotalPages)
	assert.False(t, out.HasPrev)
	assert.True(t, out.HasNext)

	w = httptest.NewRecorder()
	handler.HandleList(w, newRequest(http.MethodGet, "/api/posts?search=react&page=2", "", nil))
	require.Equal(t, http.StatusOK, w.Code)
	out = ListOutput{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Len(t, out.Posts, 5)
	assert.True(t, out.HasPrev)
	assert.False(t, out.HasNext)
}

func TestListHandler_PagePastEndShowsLastPage(t *testing.T) {
	fake := blogapitest.NewFake()
	seed(fake, 15, "react")
	handler := NewListHandler(fake)

	w := httptest.NewRecorder()
	handler.HandleList(w, newRequest(http.MethodGet, "/api/posts?page=9", "", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out ListOutput
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 2, out.TotalPages)
	assert.Len(t, out.Posts, 5)
	assert.True(t, out.HasPrev)
	assert.False(t, out.HasNext)
}

func TestListHandler_EmptyResultStillHasOnePage(t *testing.T) {
	fake := blogapitest.NewFake()
	seed(fake, 3, "go")
	handler := NewListHandler(fake)

	w := httptest.NewRecorder()
	handler.HandleList(w, newRequest(http.MethodGet, "/api/posts?search=nothing-matches", "", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out ListOutput
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.NotNil(t, out.Posts)
	assert.Empty(t, out.Posts)
	assert.Equal(t, 1, out.TotalPages)
	assert.False(t, out.HasNext)
}

func TestListHandler_Errors(t *testing.T) {
	fake := blogapitest.NewFake()
	handler := NewListHandler(fake)

	w := httptest.NewRecorder()
	handler.HandleList(w, newRequest(http.MethodGet, "/api/posts?page=zero", "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, fake.Calls("posts.list"))

	fake.Fail("posts.list", blogapi.ErrUnavailable)
	w = httptest.NewRecorder()
	handler.HandleList(w, newRequest(http.MethodGet, "/api/posts", "", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCreateHandler(t *testing.T) {
	fake := blogapitest.NewFake()
	handler := NewCreateHandler(fake)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, newRequest(http.MethodPost, "/api/posts",
		`{"title":"Hello","text":"World","tags":["go, web"," api ",""]}`, nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created posts.Post
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, []string{"go, web", "api"}, created.Tags, "array entries are trimmed, never split")
}

func TestCreateHandler_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "missing title", body: `{"title":" ","text":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "missing text", body: `{"title":"x","text":""}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "too large", body: `{"title":"` + strings.Repeat("a", maxDraftBody) + `"}`, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := blogapitest.NewFake()
			handler := NewCreateHandler(fake)

			w := httptest.NewRecorder()
			handler.HandleCreate(w, newRequest(http.MethodPost, "/api/posts", tt.body, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, 0, fake.Calls("posts.create"))
		})
	}
}

func TestUpdateHandler(t *testing.T) {
	fake := blogapitest.NewFake()
	id := fake.AddPost("Old", "old")
	handler := NewUpdateHandler(fake)

	w := httptest.NewRecorder()
	handler.HandleUpdate(w, newRequest(http.MethodPut, "/api/posts/1", `{"title":"New","text":"new","tags":[]}`,
		map[string]string{"postID": "1"}))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "New", fake.Post(id).Title)

	w = httptest.NewRecorder()
	handler.HandleUpdate(w, newRequest(http.MethodPut, "/api/posts/9", `{"title":"New","text":"new"}`,
		map[string]string{"postID": "9"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteHandler_RunsHooks(t *testing.T) {
	fake := blogapitest.NewFake()
	id := fake.AddPost("Doomed", "x")

	var forgotten []int64
	handler := NewDeleteHandler(fake, func(postID int64) { forgotten = append(forgotten, postID) })

	w := httptest.NewRecorder()
	handler.HandleDelete(w, newRequest(http.MethodDelete, "/api/posts/1", "", map[string]string{"postID": "1"}))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, fake.Post(id))
	assert.Equal(t, []int64{id}, forgotten)

	w = httptest.NewRecorder()
	handler.HandleDelete(w, newRequest(http.MethodDelete, "/api/posts/1", "", map[string]string{"postID": "1"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, forgotten, 1, "hooks only run after a confirmed delete")

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "PostNotFound", resp.Error)
}
