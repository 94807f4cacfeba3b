package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"instaclone/cmd/app"
	"instaclone/internal/config"
	"instaclone/internal/database"
	handlers "instaclone/internal/handler"
	"instaclone/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, _, services := app.App(cfg)
	defer database.MethodsDB.CloseDB(db)

	handler := handlers.NewHandlers(services, cfg)

	appKey := middleware.AppKeyMiddleware(cfg.App)
	authenticated := func(next http.Handler) http.Handler {
		return middleware.Chain(next, appKey, middleware.AuthMiddleware(services.Auth))
	}

	// setting up routes
	router := handlers.NewRouter(handler, authenticated, appKey)
	router.Use(middleware.MetricsMiddleware)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Сервер запущен на %s", addr)
		log.Printf("База данных: %s", cfg.DB.DbNAME)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
	log.Println("Сервер остановлен")
}
