// Package seed fills a running store with demo users, photos and likes through the public API.
package seed

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/brianvoe/gofakeit/v6"

	"instaclone/internal/client"
)

// Remote is the part of the store client the seeder needs
type Remote interface {
	Register(ctx context.Context, username, password string) (*client.Session, error)
	SavePost(ctx context.Context, s *client.Session, p client.NewPost) (*client.Post, error)
	AddLike(ctx context.Context, s *client.Session, postID string) (*client.LikeResult, error)
}

type Options struct {
	Users        int
	PostsPerUser int
	// LikeChance is the probability that a user likes a given post
	LikeChance float64
	Password   string
	ImageDir   string
	Seed       int64
	DryRun     bool
}

type Result struct {
	Users []*client.Session
	Posts []*client.Post
	Likes int
}

type Seeder struct {
	remote Remote
	opts   Options
	faker  *gofakeit.Faker
}

func NewSeeder(remote Remote, opts Options) *Seeder {
	if opts.Password == "" {
		opts.Password = "password123"
	}
	if opts.ImageDir == "" {
		opts.ImageDir = os.TempDir()
	}
	return &Seeder{remote: remote, opts: opts, faker: gofakeit.New(opts.Seed)}
}

// Username is between 3 and 30 characters as the store requires
func (s *Seeder) Username() string {
	name := fmt.Sprintf("%s%d", s.faker.Username(), s.faker.Number(100, 999))
	if len(name) > 30 {
		name = name[len(name)-30:]
	}
	return name
}

func (s *Seeder) Caption() string {
	return fmt.Sprintf("%s %s", s.faker.Sentence(s.faker.Number(3, 8)), s.faker.Emoji())
}

// WriteImage draws a two colour gradient PNG into dir
func (s *Seeder) WriteImage(dir string) (string, error) {
	const size = 256
	from := s.randomColor()
	to := s.randomColor()

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			t := float64(x+y) / float64(2*size)
			img.Set(x, y, color.RGBA{
				R: mix(from.R, to.R, t),
				G: mix(from.G, to.G, t),
				B: mix(from.B, to.B, t),
				A: 255,
			})
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ошибка создания каталога %s: %w", dir, err)
	}
	path := filepath.Join(dir, s.faker.UUID()+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("ошибка создания файла: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("ошибка кодирования PNG: %w", err)
	}
	return path, f.Close()
}

func (s *Seeder) randomColor() color.RGBA {
	return color.RGBA{
		R: uint8(s.faker.Number(0, 255)),
		G: uint8(s.faker.Number(0, 255)),
		B: uint8(s.faker.Number(0, 255)),
		A: 255,
	}
}

func mix(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// Run registers users, uploads their posts and spreads likes between them
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	for i := 0; i < s.opts.Users; i++ {
		username := s.Username()
		if s.opts.DryRun {
			log.Printf("[dry-run] пользователь %s", username)
			continue
		}

		session, err := s.remote.Register(ctx, username, s.opts.Password)
		if err != nil {
			return result, fmt.Errorf("ошибка регистрации %s: %w", username, err)
		}
		result.Users = append(result.Users, session)
	}

	for _, session := range result.Users {
		for j := 0; j < s.opts.PostsPerUser; j++ {
			path, err := s.WriteImage(s.opts.ImageDir)
			if err != nil {
				return result, err
			}

			post, err := s.remote.SavePost(ctx, session, client.NewPost{Description: s.Caption(), ImagePath: path})
			os.Remove(path)
			if err != nil {
				return result, fmt.Errorf("ошибка создания поста: %w", err)
			}
			result.Posts = append(result.Posts, post)
		}
	}

	for _, session := range result.Users {
		for _, post := range result.Posts {
			if s.faker.Float64() >= s.opts.LikeChance {
				continue
			}
			if _, err := s.remote.AddLike(ctx, session, post.ID); err != nil {
				return result, fmt.Errorf("ошибка лайка поста %s: %w", post.ID, err)
			}
			result.Likes++
		}
	}

	log.Printf("Создано пользователей: %d, постов: %d, лайков: %d", len(result.Users), len(result.Posts), result.Likes)
	return result, nil
}
