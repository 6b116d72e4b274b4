package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Scribe/internal/api/middleware"
	"Scribe/internal/blogapi/blogapitest"
	"Scribe/internal/core/detail"
	"Scribe/internal/core/images"
	"Scribe/internal/core/likes"
	"Scribe/internal/core/posts"
	"Scribe/internal/web"
)

func newTestServer(t *testing.T, origins []string) (*httptest.Server, *blogapitest.Fake) {
	t.Helper()
	fake := blogapitest.NewFake()

	listings, err := posts.NewListings(fake, 100, nil)
	require.NoError(t, err)
	tracker, err := likes.NewTracker(fake, 100, nil)
	require.NoError(t, err)
	detailService, err := detail.NewService(fake, nil)
	require.NoError(t, err)
	cache, err := images.NewMemoryCache(16)
	require.NoError(t, err)
	imageService, err := images.NewService(fake, cache, images.NewProcessor(), images.DefaultConfig(), nil)
	require.NoError(t, err)
	templates, err := web.NewTemplates()
	require.NoError(t, err)
	store := middleware.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), false)
	webHandlers, err := web.NewHandlers(templates, fake, tracker, detailService, imageService, store, 1<<20, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterImageRoutes(r, imageService)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewVisitor(store).Middleware)
		RegisterAPIRoutes(r, APIDeps{
			Client:         fake,
			Listings:       listings,
			Likes:          tracker,
			Detail:         detailService,
			Images:         imageService,
			Limiter:        middleware.NewRateLimiter(1000, time.Minute),
			AllowedOrigins: origins,
		})
		RegisterWebRoutes(r, webHandlers)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, fake
}

// newBrowser returns a client that keeps cookies and does not follow redirects.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func getBody(t *testing.T, client *http.Client, target string) (int, string) {
	t.Helper()
	resp, err := client.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	var sb bytes.Buffer
	_, err = sb.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, sb.String()
}

func TestWebRoutes_LikeIsRememberedPerVisitor(t *testing.T) {
	srv, fake := newTestServer(t, nil)
	fake.AddPost("First", "Hello")
	alice := newBrowser(t)
	bob := newBrowser(t)

	status, _ := getBody(t, alice, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)

	resp, err := alice.PostForm(srv.URL+"/posts/1/like", url.Values{"return": {"/"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body := getBody(t, alice, srv.URL+"/posts/1")
	assert.Contains(t, body, "&#9829; Liked")
	assert.Contains(t, body, "1 likes")

	_, body = getBody(t, bob, srv.URL+"/posts/1")
	assert.Contains(t, body, "&#9825; Like", "bob has not liked it")
	assert.Contains(t, body, "1 likes", "but sees the shared count")
}

func TestWebRoutes_FlashShownOnce(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	browser := newBrowser(t)

	resp, err := browser.PostForm(srv.URL+"/posts", url.Values{"title": {"Hi"}, "text": {"There"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/posts/1", resp.Header.Get("Location"))

	_, body := getBody(t, browser, srv.URL+"/posts/1")
	assert.Contains(t, body, "Post created!")

	_, body = getBody(t, browser, srv.URL+"/posts/1")
	assert.NotContains(t, body, "Post created!")
}

func TestWebRoutes_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	status, body := getBody(t, newBrowser(t), srv.URL+"/nowhere")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Page not found")
}

func TestAPIRoutes_LikeToggle(t *testing.T) {
	srv, fake := newTestServer(t, nil)
	fake.AddPost("First", "Hello")
	browser := newBrowser(t)

	for _, want := range []likes.LikeState{{Liked: true, LikesCount: 1}, {Liked: false, LikesCount: 0}} {
		resp, err := browser.Post(srv.URL+"/api/posts/1/like", "application/json", nil)
		require.NoError(t, err)
		var got likes.LikeState
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		resp.Body.Close()
		assert.Equal(t, want, got)
	}
}

func TestAPIRoutes_ListingFollowsVisitor(t *testing.T) {
	srv, fake := newTestServer(t, nil)
	for i := 0; i < 15; i++ {
		fake.AddPost("Post", "text")
	}

	page := func(t *testing.T, browser *http.Client, method, path string) int {
		t.Helper()
		req, err := http.NewRequest(method, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := browser.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Page       int `json:"page"`
			TotalPages int `json:"totalPages"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, 2, out.TotalPages)
		return out.Page
	}

	alice := newBrowser(t)
	assert.Equal(t, 1, page(t, alice, http.MethodGet, "/api/listing"))
	assert.Equal(t, 2, page(t, alice, http.MethodPost, "/api/listing/next"))
	assert.Equal(t, 2, page(t, alice, http.MethodGet, "/api/listing"), "the visitor's position is remembered")

	bob := newBrowser(t)
	assert.Equal(t, 1, page(t, bob, http.MethodGet, "/api/listing"))

	assert.Equal(t, 2, page(t, alice, http.MethodGet, "/api/posts?page=9"), "stateless listing clamps too")
}

func TestAPIRoutes_CommentReturnsView(t *testing.T) {
	srv, fake := newTestServer(t, nil)
	fake.AddPost("First", "Hello")

	resp, err := newBrowser(t).Post(srv.URL+"/api/posts/1/comments", "application/json", strings.NewReader(`{"text":"hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view detail.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Len(t, view.Comments, 1)
	assert.Equal(t, 1, view.Post.CommentsCount)
}

func TestAPIRoutes_DeletePost(t *testing.T) {
	srv, fake := newTestServer(t, nil)
	fake.AddPost("First", "Hello")
	browser := newBrowser(t)

	resp, err := browser.Post(srv.URL+"/api/posts/1/like", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/posts/1", nil)
	require.NoError(t, err)
	resp, err = browser.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	status, _ := getBody(t, browser, srv.URL+"/api/posts/1")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPIRoutes_CORS(t *testing.T) {
	srv, _ := newTestServer(t, []string{"https://app.example"})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/posts/1/like", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestImageRoutes(t *testing.T) {
	srv, fake := newTestServer(t, nil)
	fake.AddPost("First", "Hello")
	fake.SetImage(1, "image/gif", []byte("GIF89a"))

	status, _ := getBody(t, newBrowser(t), srv.URL+"/images/card/2")
	assert.Equal(t, http.StatusNotFound, status)

	resp, err := http.Get(srv.URL + "/images/original/1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/gif", resp.Header.Get("Content-Type"))
}
