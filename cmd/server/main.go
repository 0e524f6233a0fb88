package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notesync-server/internal/config"
	"notesync-server/internal/event"
	"notesync-server/internal/handler"
	"notesync-server/internal/middleware"
	"notesync-server/internal/repository"
	"notesync-server/internal/service"
	"notesync-server/pkg/logger"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gocloud.dev/pubsub"
	"gocloud.dev/pubsub/awssnssqs"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	log, err := logger.New("notesync-server")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer func(log *zap.SugaredLogger) {
		_ = log.Sync()
	}(log)

	if err := run(log); err != nil {
		log.Errorw("startup", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Sync.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.Sync.TimeZone, err)
	}

	db, err := sql.Open("mysql", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Database.PingTimeout)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}

	store := repository.NewSQLStore(db, cfg.Database.OperationTimeout)
	if err := store.InitSchema(context.Background()); err != nil {
		return err
	}
	userRepo := repository.NewUserRepository(db, cfg.Database.OperationTimeout)

	var cache *redis.Client
	if cfg.Cache.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Username: cfg.Cache.User,
			Password: cfg.Cache.Password,
		})
		rdsCtx, rdsCancel := context.WithTimeout(context.Background(), cfg.Cache.PingTimeout)
		defer rdsCancel()
		if err := cache.Ping(rdsCtx).Err(); err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}
		defer func() {
			_ = cache.Close()
		}()
	}

	var events *event.Publisher
	if cfg.Messaging.TopicURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load aws config: %w", err)
		}
		topic := awssnssqs.OpenSQSTopicV2(context.Background(),
			awssqs.NewFromConfig(awsCfg), cfg.Messaging.TopicURL, &awssnssqs.TopicOptions{})
		defer func(topic *pubsub.Topic) {
			stdCtx, stdCancel := context.WithTimeout(context.Background(), cfg.Messaging.ShutdownTimeout)
			defer stdCancel()
			if err := topic.Shutdown(stdCtx); err != nil {
				log.Errorw("could not stop topic gracefully", "error", err)
			}
		}(topic)
		events = event.NewPublisher(topic)
	}

	authService := service.NewAuthService(userRepo, store, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	userService := service.NewUserService(userRepo, store, cache, cfg.Cache.TTL, cfg.Server.BaseURL, log)
	noteService := service.NewNoteService(store, cfg.Server.BaseURL)
	syncService := service.NewSyncService(store, cache, events, loc, cfg.Server.BaseURL, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	noteHandler := handler.NewNoteHandler(noteService)
	syncHandler := handler.NewSyncHandler(syncService)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	r.HandleFunc("/health", healthHandler).Methods("GET")

	api := r.PathPrefix("/api/1.0").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.HandleFunc("/{username}", userHandler.Meta).Methods("GET", "OPTIONS")
	protected.HandleFunc("/{username}/notes", noteHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/{username}/notes", syncHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/{username}/notes/{id}", noteHandler.Get).Methods("GET", "OPTIONS")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("starting server", "addr", addr, "env", cfg.Server.Env, "zone", cfg.Sync.TimeZone)
		serverErrors <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Infow("shutdown started", "signal", sig)
		defer log.Infow("shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"notesync-server"}`))
}
