package comments

import (
	"context"
	"encoding/json"
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
	"Scribe/internal/core/detail"
)

func newService(t *testing.T) (*detail.Service, *blogapitest.Fake) {
	t.Helper()
	fake := blogapitest.NewFake()
	svc, err := detail.NewService(fake, nil)
	require.NoError(t, err)
	return svc, fake
}

func newRequest(method, path, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) detail.View {
	t.Helper()
	var view detail.View
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	return view
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestGetPostHandler(t *testing.T) {
	svc, fake := newService(t)
	id := fake.AddPost("Hello", "World", "go")
	fake.AddComment(id, "first")

	handler := NewGetPostHandler(svc)
	w := httptest.NewRecorder()
	handler.HandleGet(w, newRequest(http.MethodGet, "/api/posts/1", "", map[string]string{"postID": "1"}))

	require.Equal(t, http.StatusOK, w.Code)
	view := decodeView(t, w)
	assert.Equal(t, "Hello", view.Post.Title)
	assert.Equal(t, 1, view.Post.CommentsCount)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "first", view.Comments[0].Text)
}

func TestGetPostHandler_Errors(t *testing.T) {
	svc, fake := newService(t)
	fake.AddPost("Hello", "World")
	handler := NewGetPostHandler(svc)

	w := httptest.NewRecorder()
	handler.HandleGet(w, newRequest(http.MethodGet, "/api/posts/x", "", map[string]string{"postID": "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.HandleGet(w, newRequest(http.MethodGet, "/api/posts/99", "", map[string]string{"postID": "99"}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	fake.Fail("comments.list", blogapi.ErrUnavailable)
	w = httptest.NewRecorder()
	handler.HandleGet(w, newRequest(http.MethodGet, "/api/posts/1", "", map[string]string{"postID": "1"}))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "BlogUnavailable", decodeError(t, w).Error)
}

func TestCreateCommentHandler_ReturnsRefreshedView(t *testing.T) {
	svc, fake := newService(t)
	id := fake.AddPost("Hello", "World")
	fake.AddComment(id, "existing")

	handler := NewCreateCommentHandler(svc)
	w := httptest.NewRecorder()
	handler.HandleCreate(w, newRequest(http.MethodPost, "/api/posts/1/comments", `{"text":"  new one "}`, map[string]string{"postID": "1"}))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decodeView(t, w)
	require.Len(t, view.Comments, 2)
	assert.Equal(t, "  new one ", view.Comments[1].Text, "text is sent as entered")
	assert.Equal(t, len(view.Comments), view.Post.CommentsCount)
}

func TestCreateCommentHandler_EmptyTextSendsNothing(t *testing.T) {
	svc, fake := newService(t)
	fake.AddPost("Hello", "World")
	handler := NewCreateCommentHandler(svc)

	for _, body := range []string{`{"text":""}`, `{"text":"   \n\t"}`} {
		w := httptest.NewRecorder()
		handler.HandleCreate(w, newRequest(http.MethodPost, "/api/posts/1/comments", body, map[string]string{"postID": "1"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "EmptyComment", decodeError(t, w).Error)
	}
	assert.Equal(t, 0, fake.Calls("comments.create"))
}

func TestCreateCommentHandler_BadInput(t *testing.T) {
	svc, fake := newService(t)
	fake.AddPost("Hello", "World")
	handler := NewCreateCommentHandler(svc)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, newRequest(http.MethodPost, "/api/posts/1/comments", `{not json`, map[string]string{"postID": "1"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.HandleCreate(w, newRequest(http.MethodPost, "/api/posts/0/comments", `{"text":"hi"}`, map[string]string{"postID": "0"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, fake.Calls("comments.create"))
}

func TestCreateCommentHandler_APIFailure(t *testing.T) {
	svc, fake := newService(t)
	fake.AddPost("Hello", "World")
	fake.Fail("comments.create", blogapi.ErrServer)
	handler := NewCreateCommentHandler(svc)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, newRequest(http.MethodPost, "/api/posts/1/comments", `{"text":"hi"}`, map[string]string{"postID": "1"}))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 0, fake.Calls("posts.get"), "no refresh after a failed create")
}

func TestUpdateCommentHandler(t *testing.T) {
	svc, fake := newService(t)
	id := fake.AddPost("Hello", "World")
	cid := fake.AddComment(id, "old")
	handler := NewUpdateCommentHandler(svc)
	params := map[string]string{"postID": "1", "commentID": "1"}
	require.Equal(t, int64(1), cid)

	w := httptest.NewRecorder()
	handler.HandleUpdate(w, newRequest(http.MethodPut, "/api/posts/1/comments/1", `{"text":"new"}`, params))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeView(t, w)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "new", view.Comments[0].Text)

	w = httptest.NewRecorder()
	handler.HandleUpdate(w, newRequest(http.MethodPut, "/api/posts/1/comments/1", `{"text":" "}`, params))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.HandleUpdate(w, newRequest(http.MethodPut, "/api/posts/1/comments/42", `{"text":"x"}`, map[string]string{"postID": "1", "commentID": "42"}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.HandleUpdate(w, newRequest(http.MethodPut, "/api/posts/1/comments/x", `{"text":"x"}`, map[string]string{"postID": "1", "commentID": "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCommentHandler(t *testing.T) {
	svc, fake := newService(t)
	id := fake.AddPost("Hello", "World")
	fake.AddComment(id, "a")
	fake.AddComment(id, "b")
	handler := NewDeleteCommentHandler(svc)

	w := httptest.NewRecorder()
	handler.HandleDelete(w, newRequest(http.MethodDelete, "/api/posts/1/comments/1", "", map[string]string{"postID": "1", "commentID": "1"}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeView(t, w)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "b", view.Comments[0].Text)
	assert.Equal(t, 1, view.Post.CommentsCount)

	w = httptest.NewRecorder()
	handler.HandleDelete(w, newRequest(http.MethodDelete, "/api/posts/1/comments/1", "", map[string]string{"postID": "1", "commentID": "1"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
