package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/gymlogger/internal/config"
	"github.com/2beens/gymlogger/internal/entries"
	"github.com/2beens/gymlogger/internal/identity"
	"github.com/2beens/gymlogger/internal/logging"
	"github.com/2beens/gymlogger/internal/session"
	"github.com/2beens/gymlogger/internal/telemetry/metrics"
	"github.com/2beens/gymlogger/internal/telemetry/tracing"
	"github.com/2beens/gymlogger/internal/tracker"
	"github.com/2beens/gymlogger/internal/web"
	"github.com/2beens/gymlogger/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	fmt.Println("starting gymlogger ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "gymlogger",
	})

	log.Debugf("using port: %d", cfg.App.Port)
	log.Debugf("entries service: [%s]", cfg.App.EntriesServiceURL)

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if !honeycombEnabled {
		log.Debugln("honeycomb tracing disabled")
	}

	dateLoc, err := cfg.App.DateLoc()
	if err != nil {
		log.Fatalf("date location: %s", err)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	rdb := newRedisClient(ctx, cfg)
	otelShutdown, err := tracing.HoneycombSetup(honeycombEnabled, "gymlogger", rdb)
	if err != nil {
		log.Fatalf("tracing setup: %s", err)
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("gymlogger", "app", promRegistry)

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.HTTPTimeout(),
	}

	identityClient := identity.NewClient(
		cfg.Identity.EndpointURL(),
		cfg.Identity.ClientID,
		tracedHttpClient,
		metricsManager,
	)
	hub := identity.NewHub()
	auth := identity.NewAuth(identityClient, newTokenStore(cfg, rdb), hub)

	sessionManager := session.NewManager(auth, hub)
	entriesTracker := tracker.New(
		entries.NewClient(cfg.App.EntriesServiceURL, tracedHttpClient, auth),
		metricsManager,
		dateLoc,
	)

	templates, err := web.LoadTemplates()
	if err != nil {
		log.Fatalf("load templates: %s", err)
	}
	app := web.NewApp(auth, sessionManager, entriesTracker, templates)
	if rdb != nil {
		app.WithSignInLimiter(redis_rate.NewLimiter(rdb), cfg.App.SignInAllowedPerMin)
	}

	sessionManager.Subscribe(entriesTracker.OnSessionChange)
	sessionManager.Subscribe(app.OnSessionChange)
	sessionManager.Start(ctx)

	server, err := web.NewServer(web.NewServerParams{
		App:            app,
		MetricsManager: metricsManager,
		PromRegistry:   promRegistry,
		CSRFKey:        csrfKey(),
		CSRFSecure:     cfg.App.CSRFSecure,
	})
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.App.Host, cfg.App.Port, cfg.App.MetricsHost, cfg.App.MetricsPort)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %s", err)
	}

	cancel()
	sessionManager.Stop()
	entriesTracker.Close()
	otelShutdown()
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis: %s", err)
		}
	}
	log.Warnln("gymlogger stopped")
}

// newRedisClient returns nil when redis is not configured.
func newRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.RedisEnabled() {
		log.Warnln("redis not configured, tokens kept in memory and sign in not rate limited")
		return nil
	}

	redisPassword := os.Getenv("GYMLOGGER_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use GYMLOGGER_REDIS_PASS")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: redisPassword,
		DB:       0, // use default DB
	})
	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}
	return rdb
}

func newTokenStore(cfg *config.Config, rdb *redis.Client) identity.TokenStore {
	if rdb == nil {
		return identity.NewMemoryTokenStore()
	}

	secret := os.Getenv("GYMLOGGER_TOKEN_SECRET")
	if secret == "" {
		log.Errorf("token secret not set, use GYMLOGGER_TOKEN_SECRET. tokens kept in memory")
		return identity.NewMemoryTokenStore()
	}

	store, err := identity.NewRedisTokenStore(rdb, []byte(secret), cfg.App.SessionProfile, identity.DefaultTokensTTL)
	if err != nil {
		log.Errorf("redis token store: %s. tokens kept in memory", err)
		return identity.NewMemoryTokenStore()
	}
	return store
}

// csrfKey comes hex encoded from GYMLOGGER_CSRF_KEY. A random key is used
// otherwise, which invalidates open forms on every restart.
func csrfKey() []byte {
	if encoded := os.Getenv("GYMLOGGER_CSRF_KEY"); encoded != "" {
		key, err := hex.DecodeString(encoded)
		if err == nil && len(key) == 32 {
			return key
		}
		log.Errorf("GYMLOGGER_CSRF_KEY must be 32 hex encoded bytes, using a random key")
	}

	key, err := pkg.GenerateRandomBytes(32)
	if err != nil {
		log.Fatalf("generate csrf key: %s", err)
	}
	return key
}
