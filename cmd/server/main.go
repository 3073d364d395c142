package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"

	"civitas/internal/asset"
	"civitas/internal/audit"
	credentialHandler "civitas/internal/credential/handler"
	credentialSvc "civitas/internal/credential/service"
	jwttoken "civitas/internal/jwt_token"
	"civitas/internal/ledger"
	"civitas/internal/platform/config"
	"civitas/internal/platform/httpserver"
	"civitas/internal/platform/logger"
	"civitas/internal/platform/metrics"
	"civitas/internal/platform/redis"
	propertyHandler "civitas/internal/property/handler"
	propertySvc "civitas/internal/property/service"
	registryHandler "civitas/internal/registry/handler"
	registrySvc "civitas/internal/registry/service"
	httptransport "civitas/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	programID, err := solana.PublicKeyFromBase58(cfg.LedgerProgramID)
	if err != nil {
		log.Error("invalid ledger program id", "error", err.Error())
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit events always land in a store; Postgres when configured,
	// memory otherwise.
	var auditStore audit.Store = audit.NewInMemoryStore()
	if cfg.PostgresDSN != "" {
		db, err := audit.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		pg := audit.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure audit schema", "error", err.Error())
			os.Exit(1)
		}
		auditStore = pg
	}
	publisher := audit.NewPublisher(auditStore)

	var kafkaSink *audit.KafkaSink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err = audit.NewKafkaSink(cfg.KafkaBrokers)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaSink.Close()
	}

	m := metrics.New()
	l := ledger.New(programID)
	book := asset.NewBook(l)
	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "civitas", "civitas")

	registry := registrySvc.New(l, book,
		registrySvc.WithLogger(log),
		registrySvc.WithMetrics(m),
		registrySvc.WithAuditPublisher(publisher),
	)
	credential := credentialSvc.New(l, book,
		credentialSvc.WithLogger(log),
		credentialSvc.WithMetrics(m),
		credentialSvc.WithAuditPublisher(publisher),
		credentialSvc.WithVerifyCache(redisClient, config.VerifyCacheTTL),
	)
	property := propertySvc.New(l, book,
		propertySvc.WithLogger(log),
		propertySvc.WithMetrics(m),
		propertySvc.WithAuditPublisher(publisher),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger: log,
		Redis:  redisClient,
		Handlers: []httptransport.Registrar{
			registryHandler.New(registry, log, jwtService),
			credentialHandler.New(credential, log, jwtService),
			propertyHandler.New(property, log, jwtService),
		},
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	if kafkaSink != nil {
		worker := audit.NewWorker(kafkaSink, publisher.Queue(), log)
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	g.Go(func() error {
		log.Info("starting civitas", "addr", cfg.Addr)
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

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
