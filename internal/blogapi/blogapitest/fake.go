// Package blogapitest provides an in-memory blog API for handler tests.
package blogapitest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"Scribe/internal/blogapi"
	"Scribe/internal/core/posts"
)

// Fake implements blogapi.Client in memory. Search matches title, text and
// tags case-insensitively. Comment counters always reflect the stored
// comments.
type Fake struct {
	posts         map[int64]*posts.Post
	comments      map[int64][]posts.Comment
	images        map[int64]*blogapi.Image
	failures      map[string]error
	calls         map[string]int
	nextPostID    int64
	nextCommentID int64
	mu            sync.Mutex
}

var _ blogapi.Client = (*Fake)(nil)

// NewFake creates an empty fake API.
func NewFake() *Fake {
	return &Fake{
		posts:         make(map[int64]*posts.Post),
		comments:      make(map[int64][]posts.Comment),
		images:        make(map[int64]*blogapi.Image),
		failures:      make(map[string]error),
		calls:         make(map[string]int),
		nextPostID:    1,
		nextCommentID: 1,
	}
}

// AddPost stores a post and returns its id.
func (f *Fake) AddPost(title, text string, tags ...string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextPostID
	f.nextPostID++
	if tags == nil {
		tags = []string{}
	}
	f.posts[id] = &posts.Post{ID: id, Title: title, Text: text, Tags: tags}
	return id
}

// AddComment stores a comment on postID and returns its id.
func (f *Fake) AddComment(postID int64, text string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addCommentLocked(postID, text)
}

// SetImage stores an image for postID.
func (f *Fake) SetImage(postID int64, contentType string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[postID] = &blogapi.Image{ContentType: contentType, Data: data}
}

// Fail makes every call of op return err until cleared with a nil err.
// Operation names match the HTTP client's: "posts.list", "likes.add", ...
func (f *Fake) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// Calls returns how many times op was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Post returns a copy of the stored post, or nil.
func (f *Fake) Post(id int64) *posts.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil
	}
	return f.copyLocked(p)
}

// Image returns the stored image of a post, or nil.
func (f *Fake) Image(id int64) *blogapi.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[id]
}

func (f *Fake) ListPosts(ctx context.Context, search string, pageNumber, pageSize int) (*posts.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("posts.list"); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(f.posts))
	for id, p := range f.posts {
		if matches(p, search) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := (len(ids) + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	start := (pageNumber - 1) * pageSize
	page := &posts.Page{Posts: []posts.Post{}, TotalPages: total}
	for i := start; i >= 0 && i < len(ids) && i < start+pageSize; i++ {
		page.Posts = append(page.Posts, *f.copyLocked(f.posts[ids[i]]))
	}
	return page, nil
}

func (f *Fake) GetPost(ctx context.Context, id int64) (*posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("posts.get"); err != nil {
		return nil, err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, notFound("posts.get")
	}
	return f.copyLocked(p), nil
}

func (f *Fake) CreatePost(ctx context.Context, draft posts.Draft) (*posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("posts.create"); err != nil {
		return nil, err
	}
	id := f.nextPostID
	f.nextPostID++
	p := &posts.Post{ID: id, Title: draft.Title, Text: draft.Text, Tags: append([]string{}, draft.Tags...)}
	f.posts[id] = p
	return f.copyLocked(p), nil
}

func (f *Fake) UpdatePost(ctx context.Context, id int64, draft posts.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("posts.update"); err != nil {
		return err
	}
	p, ok := f.posts[id]
	if !ok {
		return notFound("posts.update")
	}
	p.Title = draft.Title
	p.Text = draft.Text
	p.Tags = append([]string{}, draft.Tags...)
	return nil
}

func (f *Fake) DeletePost(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("posts.delete"); err != nil {
		return err
	}
	if _, ok := f.posts[id]; !ok {
		return notFound("posts.delete")
	}
	delete(f.posts, id)
	delete(f.comments, id)
	delete(f.images, id)
	return nil
}

func (f *Fake) UploadImage(ctx context.Context, id int64, upload blogapi.ImageUpload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("posts.image.upload"); err != nil {
		return err
	}
	if _, ok := f.posts[id]; !ok {
		return notFound("posts.image.upload")
	}
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return err
	}
	f.images[id] = &blogapi.Image{ContentType: upload.ContentType, Data: data}
	return nil
}

func (f *Fake) GetImage(ctx context.Context, id int64) (*blogapi.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("posts.image.get"); err != nil {
		return nil, err
	}
	img, ok := f.images[id]
	if !ok {
		return nil, notFound("posts.image.get")
	}
	return &blogapi.Image{ContentType: img.ContentType, Data: append([]byte(nil), img.Data...)}, nil
}

func (f *Fake) Like(ctx context.Context, id int64) (int, error) {
	return f.adjustLikes("likes.add", id, 1)
}

func (f *Fake) Unlike(ctx context.Context, id int64) (int, error) {
	return f.adjustLikes("likes.remove", id, -1)
}

func (f *Fake) ListComments(ctx context.Context, postID int64) ([]posts.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("comments.list"); err != nil {
		return nil, err
	}
	if _, ok := f.posts[postID]; !ok {
		return nil, notFound("comments.list")
	}
	return append([]posts.Comment{}, f.comments[postID]...), nil
}

func (f *Fake) GetComment(ctx context.Context, postID, commentID int64) (*posts.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("comments.get"); err != nil {
		return nil, err
	}
	i := f.commentIndexLocked(postID, commentID)
	if i < 0 {
		return nil, notFound("comments.get")
	}
	c := f.comments[postID][i]
	return &c, nil
}

func (f *Fake) CreateComment(ctx context.Context, postID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("comments.create"); err != nil {
		return err
	}
	if _, ok := f.posts[postID]; !ok {
		return notFound("comments.create")
	}
	f.addCommentLocked(postID, text)
	return nil
}

func (f *Fake) UpdateComment(ctx context.Context, postID, commentID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("comments.update"); err != nil {
		return err
	}
	i := f.commentIndexLocked(postID, commentID)
	if i < 0 {
		return notFound("comments.update")
	}
	f.comments[postID][i].Text = text
	return nil
}

func (f *Fake) DeleteComment(ctx context.Context, postID, commentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked("comments.delete"); err != nil {
		return err
	}
	i := f.commentIndexLocked(postID, commentID)
	if i < 0 {
		return notFound("comments.delete")
	}
	list := f.comments[postID]
	f.comments[postID] = append(list[:i:i], list[i+1:]...)
	return nil
}

func (f *Fake) adjustLikes(op string, id int64, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enterLocked(op); err != nil {
		return 0, err
	}
	p, ok := f.posts[id]
	if !ok {
		return 0, notFound(op)
	}
	p.LikesCount += delta
	if p.LikesCount < 0 {
		p.LikesCount = 0
	}
	return p.LikesCount, nil
}

func (f *Fake) enterLocked(op string) error {
	f.calls[op]++
	if err, ok := f.failures[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *Fake) addCommentLocked(postID int64, text string) int64 {
	id := f.nextCommentID
	f.nextCommentID++
	f.comments[postID] = append(f.comments[postID], posts.Comment{ID: id, PostID: postID, Text: text})
	return id
}

func (f *Fake) commentIndexLocked(postID, commentID int64) int {
	for i, c := range f.comments[postID] {
		if c.ID == commentID {
			return i
		}
	}
	return -1
}

func (f *Fake) copyLocked(p *posts.Post) *posts.Post {
	cp := *p
	cp.Tags = append([]string{}, p.Tags...)
	cp.CommentsCount = len(f.comments[p.ID])
	return &cp
}

func matches(p *posts.Post, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Title), needle) || strings.Contains(strings.ToLower(p.Text), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w (status 404)", op, blogapi.ErrNotFound)
}
