// Package blogapi is the HTTP client for the external blog API.
// The API owns all posts, comments, likes and images; this package only
// translates calls into requests and status codes into typed errors.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"Scribe/internal/core/posts"
)

// Client provides access to the blog API.
type Client interface {
	// ListPosts returns one page of posts matching search.
	ListPosts(ctx context.Context, search string, pageNumber, pageSize int) (*posts.Page, error)

	// GetPost returns a single post including its like and comment counters.
	GetPost(ctx context.Context, id int64) (*posts.Post, error)

	// CreatePost creates a post and returns it with its assigned ID.
	CreatePost(ctx context.Context, draft posts.Draft) (*posts.Post, error)

	// UpdatePost replaces the title, text and tags of a post.
	UpdatePost(ctx context.Context, id int64, draft posts.Draft) error

	// DeletePost deletes a post together with its comments and image.
	DeletePost(ctx context.Context, id int64) error

	// UploadImage sets or replaces the image of a post.
	UploadImage(ctx context.Context, id int64, upload ImageUpload) error

	// GetImage returns the raw image of a post.
	// Returns ErrNotFound if the post has no image.
	GetImage(ctx context.Context, id int64) (*Image, error)

	// Like adds one like to a post and returns the new like count.
	Like(ctx context.Context, id int64) (int, error)

	// Unlike removes one like from a post and returns the new like count.
	Unlike(ctx context.Context, id int64) (int, error)

	// ListComments returns all comments of a post.
	ListComments(ctx context.Context, postID int64) ([]posts.Comment, error)

	// GetComment returns a single comment.
	GetComment(ctx context.Context, postID, commentID int64) (*posts.Comment, error)

	// CreateComment appends a comment to a post.
	CreateComment(ctx context.Context, postID int64, text string) error

	// UpdateComment replaces the text of a comment.
	UpdateComment(ctx context.Context, postID, commentID int64, text string) error

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, postID, commentID int64) error
}

// Image is an image as served by the API.
type Image struct {
	ContentType string
	Data        []byte
}

// ImageUpload is a file selected in a post form.
type ImageUpload struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

const (
	userAgent = "Scribe/1.0"

	// defaultImageContentType is what the API assumes for images stored
	// without a content type.
	defaultImageContentType = "image/jpeg"

	// maxErrorBody bounds how much of an error response is kept for diagnostics
	maxErrorBody = 1024
)

// HTTPClient implements Client over HTTP/JSON.
type HTTPClient struct {
	http          *http.Client
	breaker       *circuitBreaker
	logger        *slog.Logger
	baseURL       string
	maxImageBytes int64
}

// Ensure HTTPClient implements Client interface.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the API described by cfg.
func NewHTTPClient(cfg Config, logger *slog.Logger) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blog API config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		http:          &http.Client{Timeout: cfg.Timeout},
		breaker:       newCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerOpenDuration, logger),
		logger:        logger,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		maxImageBytes: int64(cfg.MaxImageSizeMB) * 1024 * 1024,
	}, nil
}

// listPostsResponse accepts both the documented totalPages field and the
// lastPage field some server versions send instead.
type listPostsResponse struct {
	Posts      []posts.Post `json:"posts"`
	TotalPages int          `json:"totalPages"`
	LastPage   int          `json:"lastPage"`
}

// ListPosts fetches GET /posts?search=&pageNumber=&pageSize=
func (c *HTTPClient) ListPosts(ctx context.Context, search string, pageNumber, pageSize int) (*posts.Page, error) {
	query := url.Values{}
	query.Set("search", search)
	query.Set("pageNumber", strconv.Itoa(pageNumber))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var result listPostsResponse
	if err := c.doJSON(ctx, "posts.list", http.MethodGet, "/posts", query, nil, &result); err != nil {
		return nil, err
	}

	total := result.TotalPages
	if total <= 0 {
		total = result.LastPage
	}
	if total <= 0 {
		total = 1
	}

	page := &posts.Page{
		Posts:      result.Posts,
		TotalPages: total,
	}
	if page.Posts == nil {
		page.Posts = []posts.Post{}
	}
	for i := range page.Posts {
		normalizePost(&page.Posts[i])
	}
	return page, nil
}

// GetPost fetches GET /posts/{id}
func (c *HTTPClient) GetPost(ctx context.Context, id int64) (*posts.Post, error) {
	var post posts.Post
	if err := c.doJSON(ctx, "posts.get", http.MethodGet, postPath(id), nil, nil, &post); err != nil {
		return nil, err
	}
	normalizePost(&post)
	return &post, nil
}

// CreatePost sends POST /posts
func (c *HTTPClient) CreatePost(ctx context.Context, draft posts.Draft) (*posts.Post, error) {
	var post posts.Post
	if err := c.doJSON(ctx, "posts.create", http.MethodPost, "/posts", nil, normalizeDraft(draft), &post); err != nil {
		return nil, err
	}
	normalizePost(&post)
	return &post, nil
}

// UpdatePost sends PUT /posts/{id}
func (c *HTTPClient) UpdatePost(ctx context.Context, id int64, draft posts.Draft) error {
	return c.doJSON(ctx, "posts.update", http.MethodPut, postPath(id), nil, normalizeDraft(draft), nil)
}

// DeletePost sends DELETE /posts/{id}
func (c *HTTPClient) DeletePost(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "posts.delete", http.MethodDelete, postPath(id), nil, nil, nil)
}

// UploadImage sends PUT /posts/{id}/image as multipart/form-data with the
// file in the "image" field.
func (c *HTTPClient) UploadImage(ctx context.Context, id int64, upload ImageUpload) error {
	if upload.Body == nil {
		return fmt.Errorf("posts.image.upload: %w: empty image", ErrBadRequest)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename=%q`, upload.Filename))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("posts.image.upload: failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, upload.Body); err != nil {
		return fmt.Errorf("posts.image.upload: failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("posts.image.upload: failed to finish form: %w", err)
	}

	resp, err := c.do(ctx, "posts.image.upload", http.MethodPut, postPath(id)+"/image", nil, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	drainAndClose(resp)
	return nil
}

// GetImage fetches GET /posts/{id}/image
func (c *HTTPClient) GetImage(ctx context.Context, id int64) (*Image, error) {
	const op = "posts.image.get"

	resp, err := c.do(ctx, op, http.MethodGet, postPath(id)+"/image", nil, nil, "")
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp)

	if resp.ContentLength > c.maxImageBytes {
		return nil, fmt.Errorf("%s: %w: content length %d exceeds %d bytes",
			op, ErrImageTooLarge, resp.ContentLength, c.maxImageBytes)
	}

	// Read one byte past the limit to detect oversized bodies without a
	// trustworthy Content-Length.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	if int64(len(data)) > c.maxImageBytes {
		return nil, fmt.Errorf("%s: %w: body exceeds %d bytes", op, ErrImageTooLarge, c.maxImageBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w: empty image", op, ErrNotFound)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultImageContentType
	}
	return &Image{ContentType: contentType, Data: data}, nil
}

// Like sends POST /posts/{id}/likes
func (c *HTTPClient) Like(ctx context.Context, id int64) (int, error) {
	var count int
	if err := c.doJSON(ctx, "likes.add", http.MethodPost, postPath(id)+"/likes", nil, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// Unlike sends DELETE /posts/{id}/likes
func (c *HTTPClient) Unlike(ctx context.Context, id int64) (int, error) {
	var count int
	if err := c.doJSON(ctx, "likes.remove", http.MethodDelete, postPath(id)+"/likes", nil, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListComments fetches GET /posts/{id}/comments
func (c *HTTPClient) ListComments(ctx context.Context, postID int64) ([]posts.Comment, error) {
	var comments []posts.Comment
	if err := c.doJSON(ctx, "comments.list", http.MethodGet, commentsPath(postID), nil, nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []posts.Comment{}
	}
	return comments, nil
}

// GetComment fetches GET /posts/{id}/comments/{commentId}
func (c *HTTPClient) GetComment(ctx context.Context, postID, commentID int64) (*posts.Comment, error) {
	var comment posts.Comment
	if err := c.doJSON(ctx, "comments.get", http.MethodGet, commentPath(postID, commentID), nil, nil, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// createCommentRequest is the body of POST /posts/{id}/comments
type createCommentRequest struct {
	Text   string `json:"text"`
	PostID int64  `json:"postId"`
}

// updateCommentRequest is the body of PUT /posts/{id}/comments/{commentId}
type updateCommentRequest struct {
	Text   string `json:"text"`
	ID     int64  `json:"id"`
	PostID int64  `json:"postId"`
}

// CreateComment sends POST /posts/{id}/comments
func (c *HTTPClient) CreateComment(ctx context.Context, postID int64, text string) error {
	body := createCommentRequest{Text: text, PostID: postID}
	return c.doJSON(ctx, "comments.create", http.MethodPost, commentsPath(postID), nil, body, nil)
}

// UpdateComment sends PUT /posts/{id}/comments/{commentId}
func (c *HTTPClient) UpdateComment(ctx context.Context, postID, commentID int64, text string) error {
	body := updateCommentRequest{ID: commentID, Text: text, PostID: postID}
	return c.doJSON(ctx, "comments.update", http.MethodPut, commentPath(postID, commentID), nil, body, nil)
}

// DeleteComment sends DELETE /posts/{id}/comments/{commentId}
func (c *HTTPClient) DeleteComment(ctx context.Context, postID, commentID int64) error {
	return c.doJSON(ctx, "comments.delete", http.MethodDelete, commentPath(postID, commentID), nil, nil, nil)
}

// doJSON sends in (if non-nil) as a JSON body and decodes the response into
// out (if non-nil).
func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, op, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	defer drainAndClose(resp)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}
	return nil
}

// do sends one request and returns the response only for 2xx status codes.
// Transport failures and 5xx responses count against the operation's circuit.
// A request cancelled by the caller does not.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.breaker.canAttempt(op); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		c.breaker.releaseTrial(op)
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, image/*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			c.breaker.releaseTrial(op)
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}
		c.breaker.recordFailure(op, err)
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	if resp.StatusCode >= 500 {
		c.breaker.recordFailure(op, fmt.Errorf("status %d", resp.StatusCode))
	} else {
		c.breaker.recordSuccess(op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer drainAndClose(resp)
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := statusError(op, resp.StatusCode, errBody)
		c.logger.Debug("[BLOG-API] request failed",
			"operation", op,
			"method", method,
			"path", path,
			"status", resp.StatusCode)
		return nil, err
	}

	return resp, nil
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

func normalizePost(p *posts.Post) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// normalizeDraft makes sure tags always encode as an array, never null
func normalizeDraft(d posts.Draft) posts.Draft {
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

func commentsPath(postID int64) string {
	return postPath(postID) + "/comments"
}

func commentPath(postID, commentID int64) string {
	return commentsPath(postID) + "/" + strconv.FormatInt(commentID, 10)
}
