package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instaclone/internal/client"
	"instaclone/internal/config"
	"instaclone/internal/seed"
)

func main() {
	configPath := flag.String("config", "instaclone.ini", "client config file")
	users := flag.Int("users", 10, "Number of users to create")
	posts := flag.Int("posts", 3, "Number of posts per user")
	likeChance := flag.Float64("likes", 0.3, "Probability that a user likes a post")
	dryRun := flag.Bool("dry-run", false, "Only print what would be created")
	flag.Parse()

	cfg, err := config.LoadClientConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("Заполнение %s: %d пользователей, %d постов у каждого", cfg.ServerURL, *users, *posts)

	seeder := seed.NewSeeder(client.New(*cfg), seed.Options{
		Users:        *users,
		PostsPerUser: *posts,
		LikeChance:   *likeChance,
		ImageDir:     os.TempDir(),
		Seed:         time.Now().UnixNano(),
		DryRun:       *dryRun,
	})

	if _, err := seeder.Run(ctx); err != nil {
		log.Fatalf("Ошибка заполнения: %v", err)
	}
}
