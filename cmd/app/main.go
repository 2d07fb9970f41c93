package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/Truella/Framez/internal/api"
	"github.com/Truella/Framez/internal/config"
	"github.com/Truella/Framez/internal/kafka"
	"github.com/Truella/Framez/internal/like"
	"github.com/Truella/Framez/internal/media"
	"github.com/Truella/Framez/internal/migrate"
	"github.com/Truella/Framez/internal/notification"
	"github.com/Truella/Framez/internal/post"
	"github.com/Truella/Framez/internal/ratelimit"
	"github.com/Truella/Framez/internal/saved"
	"github.com/Truella/Framez/internal/shared/db"
	"github.com/Truella/Framez/internal/shared/redisx"
	"github.com/Truella/Framez/internal/user"
)

func initOTEL(ctx context.Context, cfg *config.Config) func(context.Context) error {
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.OTELEndpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.OTELServiceName),
		attribute.String("deployment.environment", cfg.Env),
	))
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.OTELSampleRatio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := initOTEL(ctx, cfg)
	defer func() {
		c, cc := context.WithTimeout(context.Background(), 5*time.Second)
		defer cc()
		_ = shutdown(c)
	}()

	store, err := db.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer store.Close()
	if cfg.AutoMigrate {
		if err := migrate.AutoMigrateAll(store); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	rdb := redisx.Open(cfg.RedisAddr())
	defer rdb.Close()

	postsOut := kafka.NewWriter(cfg.KafkaBrokers, kafka.TopicPostCreated)
	defer postsOut.Close()
	likesOut := kafka.NewWriter(cfg.KafkaBrokers, kafka.TopicPostLiked)
	defer likesOut.Close()

	s3, err := media.NewS3(media.S3Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		Bucket:    cfg.S3Bucket,
	})
	if err != nil {
		log.Fatalf("s3: %v", err)
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Printf("[media] ensure bucket %s: %v", cfg.S3Bucket, err)
	}
	mediaSvc := media.NewService(s3, cfg.S3Bucket, cfg.S3PublicURL)

	likeCounts := like.NewRedisCache(rdb)
	postSvc := post.NewService(post.NewRepository(store), postsOut, mediaSvc, likeCounts)
	notifSvc := notification.NewService(notification.NewRedisRepository(rdb))

	mux := api.NewRouter(api.Deps{
		Users:           user.NewService(user.NewRepository(store)),
		Posts:           postSvc,
		Likes:           like.NewService(like.NewRepository(store), postSvc, likeCounts, likesOut),
		Saved:           saved.NewService(saved.NewRepository(store), postSvc),
		Media:           mediaSvc,
		Notifications:   notifSvc,
		Limiter:         ratelimit.New(rdb),
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           otelhttp.NewHandler(mux, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	cons := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, kafka.TopicPostLiked, notifSvc.HandleLike)
	go func() {
		if err := cons.Run(ctx); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	go func() {
		log.Printf("framez api listening on %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Print("shutting down...")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
	cancel()
}
