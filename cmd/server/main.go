// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"terraspark/internal/authz"
	"terraspark/internal/jwt_token"
	"terraspark/internal/ledger"
	"terraspark/internal/platform/config"
	"terraspark/internal/platform/httpserver"
	"terraspark/internal/platform/logger"
	"terraspark/internal/platform/metrics"
	platformredis "terraspark/internal/platform/redis"
	"terraspark/internal/registry/events"
	eventskafka "terraspark/internal/registry/events/kafka"
	eventsworker "terraspark/internal/registry/events/worker"
	"terraspark/internal/registry/handler"
	creditstore "terraspark/internal/registry/store/credit"
	facilitystore "terraspark/internal/registry/store/facility"
	mintstore "terraspark/internal/registry/store/mint"
	"terraspark/internal/registry/service"
	httptransport "terraspark/internal/transport/http"
	id "terraspark/pkg/domain"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Stores: postgres when configured, in-memory otherwise.
	var (
		credits    service.CreditStore
		facilities service.FacilityStore
		mints      service.MintStore
	)
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		credits = creditstore.NewPostgres(db)
		facilities = facilitystore.NewPostgres(db)
		mints = mintstore.NewPostgres(db)
	} else {
		credits = creditstore.NewInMemory()
		facilities = facilitystore.NewInMemory()
		mints = mintstore.NewInMemory()
	}

	// Custody ledger: redis when configured, in-memory otherwise.
	var custody ledger.Ledger
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		custody = ledger.NewRedis(redisClient.Client)
	} else {
		custody = ledger.NewInMemory()
	}

	// Event sink: kafka when brokers are configured, in-process buffer
	// otherwise.
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := eventskafka.New(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		publisher = events.NewMemoryPublisher()
	}

	outbox := make(chan events.Event, 1024)

	svc := service.New(credits, facilities, mints, custody,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithPolicy(authz.NewStaticPolicy(cfg.AuthorizedValidators, cfg.AuthorizedCertifiers)),
		service.WithEventSink(outbox),
	)

	authority, err := id.ParseAccountID(cfg.MintAuthority)
	if err != nil {
		// No configured authority: mint one for this run so development
		// deployments come up without ceremony.
		authority = id.AccountID(uuid.New())
		log.Warn("MINT_AUTHORITY not configured, using ephemeral authority", "authority", authority)
	}
	if _, err := svc.InitializeMint(ctx, cfg.MintName, cfg.MintSymbol, cfg.MintMetadataURI, authority); err != nil {
		log.Error("initialize mint", "error", err)
		os.Exit(1)
	}

	verifier := jwttoken.NewJWTService(cfg.JWTSigningKey, "terraspark", "terraspark-registry")
	h := handler.New(svc, log)
	router := httptransport.NewRouter(h, verifier, log)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		worker := eventsworker.New(publisher, outbox, log)
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		log.Info("starting terraspark registry", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
