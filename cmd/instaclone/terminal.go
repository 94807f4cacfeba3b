package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"instaclone/internal/client"
	"instaclone/internal/screens"
)

// terminal draws every screen as plain text and plays the camera role
type terminal struct {
	out io.Writer
	now func() time.Time

	// camera
	requestCode int
	capturePath string
}

func (t *terminal) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) Notify(message string) {
	t.printf("* %s\n", message)
}

func (t *terminal) ShowPosts(posts []client.Post, liked []bool) {
	if len(posts) == 0 {
		t.printf("(no posts)\n")
		return
	}
	for i, post := range posts {
		t.renderPost(i, post, i < len(liked) && liked[i])
	}
}

func (t *terminal) RenderPost(index int, post client.Post, liked bool) {
	t.renderPost(index, post, liked)
}

func (t *terminal) renderPost(index int, post client.Post, liked bool) {
	heart := "♡"
	if liked {
		heart = "♥"
	}
	caption := screens.Caption{Username: post.Author.Username, Description: post.Description}
	t.printf("[%d] %s  %s %s  %s\n", index, caption.ANSI(), heart, screens.LikeLabel(len(post.LikedBy)),
		screens.RelativeTime(post.CreatedAt, t.now()))
	if post.ImageURL != "" {
		t.printf("    %s\n", post.ImageURL)
	}
}

func (t *terminal) SetRefreshing(refreshing bool) {
	if refreshing {
		t.printf("refreshing...\n")
	}
}

func (t *terminal) ShowProfile(user client.User, postCount int) {
	t.printf("\x1b[1m%s\x1b[0m  %d posts\n", user.Username, postCount)
	if user.AvatarURL != "" {
		t.printf("avatar: %s\n", user.AvatarURL)
	}
}

func (t *terminal) ShowDetail(s screens.Snapshot) {
	t.printf("%s\n", s.Username)
	if s.AvatarURL != "" {
		t.printf("avatar: %s\n", s.AvatarURL)
	}
	if s.PostImageURL != "" {
		t.printf("image: %s\n", s.PostImageURL)
	}
	t.printf("%s\n%s  %s\n", s.Caption().ANSI(), screens.LikeLabel(s.LikeCount), s.TimeStamp)
}

func (t *terminal) ShowPreview(path string) {
	t.printf("preview: %s\n", path)
}

func (t *terminal) SetSubmitEnabled(enabled bool) {
	if enabled {
		t.printf("ready to submit\n")
	}
}

func (t *terminal) ClearInputs() {
	t.printf("caption and photo cleared\n")
}

func (t *terminal) Capture(requestCode int, path string) error {
	t.requestCode = requestCode
	t.capturePath = path
	t.printf("camera ready, run: capture <image file>\n")
	return nil
}

// develop copies src into the path the compose screen asked for and reports the result code
func (t *terminal) develop(src string) (int, error) {
	if t.capturePath == "" {
		return t.requestCode, fmt.Errorf("camera was not launched")
	}

	in, err := os.Open(src)
	if err != nil {
		return t.requestCode, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(t.capturePath), 0o755); err != nil {
		return t.requestCode, err
	}
	out, err := os.Create(t.capturePath)
	if err != nil {
		return t.requestCode, err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return t.requestCode, err
	}
	return t.requestCode, out.Close()
}
