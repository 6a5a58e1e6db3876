package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"nidbridge/internal/audit"
	"nidbridge/internal/auth"
	"nidbridge/internal/capture"
	capturemetrics "nidbridge/internal/capture/metrics"
	"nidbridge/internal/gateway"
	gatewaymetrics "nidbridge/internal/gateway/metrics"
	jwttoken "nidbridge/internal/jwt_token"
	"nidbridge/internal/platform/config"
	"nidbridge/internal/platform/httpserver"
	"nidbridge/internal/platform/logger"
	platformmetrics "nidbridge/internal/platform/metrics"
	platformredis "nidbridge/internal/platform/redis"
	"nidbridge/internal/session"
	"nidbridge/internal/tokencache"
	transport "nidbridge/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := platformmetrics.New()

	// Audit pipeline: emitters write into a buffered channel, a worker drains
	// into the configured sink so slow sinks never sit on the request path.
	sink, closeSink, err := buildAuditSink(cfg)
	if err != nil {
		return fmt.Errorf("audit sink: %w", err)
	}
	defer closeSink()

	inbox := make(chan audit.Event, cfg.Audit.BufferSize)
	worker := audit.NewWorker(sink, inbox, log)
	publisher := audit.NewPublisher(audit.NewChannelStore(inbox, sink))

	sessions := session.New()
	tokens := tokencache.New()

	users := auth.NewUserStore()
	if err := users.Add(cfg.OperatorUser, cfg.OperatorPassword); err != nil {
		return fmt.Errorf("seed operator account: %w", err)
	}

	validator := jwttoken.NewJWTService(cfg.JWTSigningKey, "nidbridge")
	authService := auth.NewService(users, sessions, validator, cfg.SessionTTL, log, m)

	gw := gateway.New(cfg.Provider, log, publisher, gatewaymetrics.New())
	peerClient := capture.NewPeerClient(cfg.Peer)
	orchestrator := capture.NewOrchestrator(peerClient, log, publisher, capturemetrics.New())

	handler := transport.NewHandler(log, authService, sessions, tokens, cfg.TokenCacheTTL, gw, orchestrator, publisher)
	server := httpserver.New(cfg.Addr, transport.NewRouter(handler, validator, m))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return httpserver.Shutdown(server)
	})

	g.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// The read path self-heals; the sweep only bounds memory from abandoned
	// entries.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					m.SweepEvictions.WithLabelValues("sessions").Add(float64(n))
					log.Debug("session sweep", "evicted", n)
				}
				m.ActiveSessions.Set(float64(sessions.Len()))
				if n := tokens.Sweep(); n > 0 {
					m.SweepEvictions.WithLabelValues("tokens").Add(float64(n))
					log.Debug("token sweep", "evicted", n)
				}
			}
		}
	})

	return g.Wait()
}

// buildAuditSink selects the audit backend from configuration. The returned
// closer is safe to call exactly once after the worker stops.
func buildAuditSink(cfg config.Config) (audit.Store, func(), error) {
	noop := func() {}
	switch cfg.Audit.Sink {
	case "", "memory":
		return audit.NewMemoryStore(1024), noop, nil

	case "redis":
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		if client == nil {
			return nil, noop, errors.New("redis sink selected but NIDBRIDGE_REDIS_URL is empty")
		}
		return audit.NewRedisStore(client.Client), func() { _ = client.Close() }, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.Audit.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("postgres ping: %w", err)
		}
		return audit.NewPostgresStore(db), func() { _ = db.Close() }, nil

	case "kafka":
		seeds := strings.Split(cfg.Audit.KafkaSeeds, ",")
		store, err := audit.NewKafkaStore(seeds, cfg.Audit.KafkaTopic)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown audit sink %q", cfg.Audit.Sink)
	}
}
