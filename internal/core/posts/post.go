package posts

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Post is the read-mostly local copy of a blog post owned by the blog API.
type Post struct {
	Tags          []string `json:"tags"`
	Title         string   `json:"title"`
	Text          string   `json:"text"`
	ID            int64    `json:"id"`
	LikesCount    int      `json:"likesCount"`
	CommentsCount int      `json:"commentsCount"`
}

// Comment belongs to exactly one post. The frontend appends, edits and
// deletes comments but never owns their canonical state.
type Comment struct {
	Text   string `json:"text"`
	ID     int64  `json:"id"`
	PostID int64  `json:"postId"`
}

// Page is one page of the post listing. It is recomputed on every query.
type Page struct {
	Posts      []Post `json:"posts"`
	TotalPages int    `json:"totalPages"`
}

// Draft is the body sent when creating or updating a post.
type Draft struct {
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags"`
}

// Validate checks the fields the create and edit forms mark as required.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(d.Text) == "" {
		return ErrTextRequired
	}
	return nil
}

// NewDraft builds a Draft from raw form input. The tags input is a comma
// separated list, see ParseTags.
func NewDraft(title, text, tagsInput string) Draft {
	return Draft{
		Title: title,
		Text:  text,
		Tags:  ParseTags(tagsInput),
	}
}

// ParseTags splits a comma separated tag input, trims every entry and drops
// empty ones. "a, b ,c" becomes ["a", "b", "c"]. The result is never nil so
// it always encodes as a JSON array.
func ParseTags(input string) []string {
	return CleanTags(strings.Split(input, ","))
}

// CleanTags trims every tag and drops empty ones. Commas inside a tag are
// kept. The result is never nil.
func CleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

// JoinTags is the inverse of ParseTags for pre-filling the edit form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ExcerptLength is how many characters of a post's text appear on its card.
const ExcerptLength = 150

// Excerpt returns the first n user-perceived characters of text followed by
// "...". Truncation happens on grapheme cluster boundaries so combined emoji
// and accented letters are never split.
func Excerpt(text string, n int) string {
	if n <= 0 {
		return "..."
	}

	var b strings.Builder
	state := -1
	rest := text
	for i := 0; i < n && rest != ""; i++ {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		b.WriteString(cluster)
	}
	b.WriteString("...")
	return b.String()
}
