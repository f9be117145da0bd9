package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"afvalprofiel/src/helper/env"
	"afvalprofiel/src/infra/postgres"
	"afvalprofiel/src/infra/redis"
	"afvalprofiel/src/repositories"
	"afvalprofiel/src/server"
	"afvalprofiel/src/services/profile"

	"go.uber.org/fx"
)

func main() {
	// Configurar logger
	log.SetOutput(os.Stdout)
	log.Println("Starting API server with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newSQLClient,
			newRedisClient,
			newServer,
			newProfileQueryRepository,
			newCachedProfileRepository,
			newProfileService,
		),

		// Invocations
		fx.Invoke(registerServerHooks),
	)

	// Start the application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait for app to exit gracefully
	<-app.Done()
}

func newLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// newSQLClient abre os pools de leitura e escrita. A API só consulta o
// read pool; o write pool responde no /healthz pela saúde do primário.
func newSQLClient() (*postgres.ReadWriteClient, error) {
	dbReadHost := env.MustGetString("DB_READ_HOST")
	dbWriteHost := env.GetString("DB_WRITE_HOST", dbReadHost)
	dbReadPort := env.GetString("DB_READ_PORT", "5432")
	dbWritePort := env.GetString("DB_WRITE_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 25)

	return postgres.NewReadWriteClient(dbReadHost, dbWriteHost, dbReadPort, dbWritePort, dbname, dbUser, dbPassword, maxConnections)
}

// newRedisClient devolve nil quando REDIS_ADDRS não está setado:
// o cache é opcional e o repositório vira pass-through.
func newRedisClient() *redis.RedisClient {
	addrs := env.GetString("REDIS_ADDRS", "")
	if addrs == "" {
		log.Println("REDIS_ADDRS not set, profile cache disabled")
		return nil
	}

	poolSize := env.GetInt("REDIS_POOL_SIZE", 10)
	ttl := env.GetDuration("REDIS_TTL", 15*time.Minute)

	return redis.NewRedisClient(addrs, poolSize, ttl)
}

func newProfileQueryRepository(readWriteClient *postgres.ReadWriteClient) *repositories.ProfileQueryRepository {
	return repositories.NewProfileQueryRepository(readWriteClient.GetReadPool())
}

func newCachedProfileRepository(
	profileQueryRepository *repositories.ProfileQueryRepository,
	redisClient *redis.RedisClient,
) *repositories.CachedProfileRepository {
	return repositories.NewCachedProfileRepository(profileQueryRepository, redisClient)
}

func newProfileService(cachedProfileRepository *repositories.CachedProfileRepository) *profile.ProfileService {
	return profile.NewProfileService(cachedProfileRepository)
}

func newServer(
	logger *slog.Logger,
	profileService *profile.ProfileService,
	sqlClient *postgres.ReadWriteClient,
) *server.Server {

	port := 8888 // default value
	if portStr := os.Getenv("SERVER_ADDR"); portStr != "" {
		if val, err := strconv.Atoi(portStr); err == nil {
			port = val
		}
	}

	server := server.NewServer(logger, port, profileService, sqlClient)

	return server
}

// registerServerHooks registers lifecycle hooks for the HTTP server
func registerServerHooks(lc fx.Lifecycle, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Start server in a separate goroutine
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Create timeout context for graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			log.Println("Shutting down server...")
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server forced to shutdown: %v", err)
				return err
			}
			log.Println("Server exited gracefully")
			return nil
		},
	})
}
