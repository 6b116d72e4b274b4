//go:build ignore

// Seeds a development blog API with posts, comments, likes and cover images
// so paging and search have something to show.
//
//	BLOG_API_URL=http://localhost:8080/api go run scripts/seed_blog.go
package main

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
	"github.com/joho/godotenv"

	"Scribe/internal/blogapi"
	"Scribe/internal/core/posts"
)

var topics = []struct {
	tag    string
	titles []string
}{
	{"go", []string{"Contexts all the way down", "Table-driven tests", "Errors are values", "Small interfaces"}},
	{"react", []string{"Hooks in practice", "State lifting revisited", "Keys and lists", "Effects without tears"}},
	{"cooking", []string{"Weeknight ramen", "Sourdough diary", "One-pan chicken", "Pickles for beginners"}},
	{"travel", []string{"Night trains of Europe", "Lisbon on foot", "Packing light", "Three days in Kyoto"}},
}

var paragraphs = []string{
	"This started as a short note and grew into something longer than planned.",
	"The first attempt did not work, and the second one only partly did.",
	"Most of the time went into the boring parts, which is usually a good sign.",
	"Here is what I would do differently next time, in no particular order.",
	"Comments below are welcome, especially the ones that disagree.",
}

var comments = []string{
	"Great write-up, thanks!",
	"I tried this and it worked on the first go.",
	"Not sure I agree with the second point.",
	"Bookmarked for later.",
	"Could you share more details on the setup?",
	"This is exactly what I was looking for 🎉",
}

var palette = []color.NRGBA{
	{R: 0xE0, G: 0x6C, B: 0x4F, A: 0xFF},
	{R: 0x3B, G: 0x82, B: 0xC4, A: 0xFF},
	{R: 0x5A, G: 0xA4, B: 0x69, A: 0xFF},
	{R: 0xC9, G: 0xA2, B: 0x27, A: 0xFF},
}

func coverImage(i int) ([]byte, error) {
	img := imaging.New(1600, 900, palette[i%len(palette)])
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func body(r *rand.Rand) string {
	var buf bytes.Buffer
	for i := 0; i < 3+r.Intn(3); i++ {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(paragraphs[r.Intn(len(paragraphs))])
	}
	return buf.String()
}

func main() {
	_ = godotenv.Load()

	client, err := blogapi.NewHTTPClient(blogapi.ConfigFromEnv(), slog.Default())
	if err != nil {
		log.Fatal("Failed to create blog API client:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	created := 0
	for round := 0; round < 2; round++ {
		for _, topic := range topics {
			for _, title := range topic.titles {
				if round > 0 {
					title += " (part 2)"
				}
				draft := posts.NewDraft(title, body(r), topic.tag+", notes")
				post, err := client.CreatePost(ctx, draft)
				if err != nil {
					log.Fatalf("Failed to create post %q: %v", title, err)
				}
				created++

				// Every other post gets a cover image.
				if created%2 == 0 {
					data, err := coverImage(created)
					if err != nil {
						log.Fatal("Failed to render cover image:", err)
					}
					upload := blogapi.ImageUpload{
						Body:        bytes.NewReader(data),
						Filename:    fmt.Sprintf("cover-%d.jpg", post.ID),
						ContentType: "image/jpeg",
					}
					if err := client.UploadImage(ctx, post.ID, upload); err != nil {
						log.Printf("Failed to upload image for post %d: %v", post.ID, err)
					}
				}

				for i := 0; i < r.Intn(5); i++ {
					if err := client.CreateComment(ctx, post.ID, comments[r.Intn(len(comments))]); err != nil {
						log.Printf("Failed to comment on post %d: %v", post.ID, err)
					}
				}

				for i := 0; i < r.Intn(8); i++ {
					if _, err := client.Like(ctx, post.ID); err != nil {
						log.Printf("Failed to like post %d: %v", post.ID, err)
						break
					}
				}
			}
		}
	}

	fmt.Printf("Seeded %d posts (%d pages of %d)\n", created, (created+posts.PageSize-1)/posts.PageSize, posts.PageSize)
}
