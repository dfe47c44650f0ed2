package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"plansign/internal/audit"
	contractsvc "plansign/internal/contract/service"
	contractstore "plansign/internal/contract/store"
	"plansign/internal/identity"
	"plansign/internal/notify"
	"plansign/internal/platform/config"
	"plansign/internal/platform/httpserver"
	"plansign/internal/platform/logger"
	"plansign/internal/platform/metrics"
	platformredis "plansign/internal/platform/redis"
	"plansign/internal/signing"
	signingstorage "plansign/internal/signing/storage"
	httptransport "plansign/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("plansign exited", "error", err)
		os.Exit(1)
	}
}

// run wires the dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages. Collaborators degrade
// gracefully: without Postgres/Redis/Kafka configured the server runs with
// in-memory stores, which is how local development works. Returning the error
// instead of exiting in place lets every Close defer run.
func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New()

	var contracts contractstore.ContractStore = contractstore.NewInMemory()
	if cfg.PostgresDSN != "" {
		db, err := contractstore.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()
		pg := contractstore.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
		contracts = pg
	}

	var dispatch notify.DispatchSignal = notify.NewInMemory()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		dispatch = notify.NewRedis(redisClient.Client)
	}

	var producer audit.Producer
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaProducer(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kafka.Close()
		producer = kafka
	}
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), producer, log)

	verifier := identity.NewJWTVerifier(cfg.JWTSigningKey, cfg.JWTIssuer)
	service := contractsvc.New(contracts, dispatch, auditor, m, log)
	storageClient := signingstorage.NewHTTPClient(cfg.StorageBaseURL, &http.Client{Timeout: config.UploadTimeout})
	pipeline := signing.NewPipeline(service, verifier, storageClient, m, log)

	handler := httptransport.NewHandler(service, pipeline, auditor, log)
	router := httptransport.NewRouter(handler, verifier, log, m)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting plansign", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
