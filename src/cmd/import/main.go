package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"afvalprofiel/src/domain"
	"afvalprofiel/src/helper/env"
	"afvalprofiel/src/infra/ftps"
	"afvalprofiel/src/infra/kafka"
	"afvalprofiel/src/infra/postgres"
	"afvalprofiel/src/infra/redis"
	"afvalprofiel/src/repositories"
	"afvalprofiel/src/services/events"
	"afvalprofiel/src/services/importer"

	"golang.org/x/term"
)

const (
	exitUsage  = 2
	exitImport = 1
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] SOURCE\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "SOURCE is a local CSV/ZIP path or an ftps:// URL.")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	// os.Exit pula defers, então o trabalho fica em run().
	os.Exit(run())
}

func run() int {
	chunkSize := flag.Int("chunk-size", importer.DefaultChunkSize, "rows processed per chunk")
	ftpsUser := flag.String("ftps-user", "", "FTPS username (or FTPS_USER env)")
	timeout := flag.Duration("timeout", 30*time.Second, "FTPS dial timeout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return exitUsage
	}
	source := flag.Arg(0)

	logger := newLogger()
	ctx := context.Background()

	plan, err := planSource(source, *ftpsUser, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	localPath, staging, err := stageSource(ctx, logger, plan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitImport
	}
	if staging != nil {
		defer staging.Close()
	}

	stats, err := runImport(ctx, logger, localPath, *chunkSize)
	if err != nil {
		logger.Error("Import failed", "source", source, "error", err)
		return exitImport
	}

	logger.Info("Import finished",
		"source", source,
		"rows_read", stats.RowsRead,
		"rows_skipped", stats.RowsSkipped,
		"citizens", stats.Citizens,
		"containers", stats.Containers,
		"locations", stats.Locations,
		"emptyings", stats.Emptyings)

	// Pós-import: cache e evento são best-effort, nunca falham o run.
	flushProfileCache(ctx, logger)
	publishDatasetReplaced(ctx, logger, source, stats)

	return 0
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

// sourcePlan é a fonte já validada, antes de qualquer transferência.
// Erros de planSource são de uso (argumentos/credenciais); erros de
// stageSource são falhas do import em si.
type sourcePlan struct {
	localPath string
	archive   bool

	remote  ftps.Remote
	fetcher importer.Fetcher
}

func planSource(source string, ftpsUser string, timeout time.Duration) (sourcePlan, error) {
	if !ftps.IsFTPSURL(source) {
		return sourcePlan{
			localPath: source,
			archive:   strings.EqualFold(filepath.Ext(source), ".zip"),
		}, nil
	}

	remote, err := ftps.ParseURL(source)
	if err != nil {
		return sourcePlan{}, err
	}

	user := ftpsUser
	if user == "" {
		user = env.GetString("FTPS_USER", "")
	}
	if user == "" {
		return sourcePlan{}, fmt.Errorf("FTPS user is required (use -ftps-user or FTPS_USER)")
	}

	password := env.GetString("FTPS_PASSWORD", "")
	if password == "" {
		password, err = promptPassword(user, remote.Host)
		if err != nil {
			return sourcePlan{}, err
		}
	}

	return sourcePlan{
		remote:  remote,
		fetcher: ftps.NewClient(remote, user, password, timeout),
	}, nil
}

// stageSource materializa a fonte num arquivo CSV local. Downloads e
// zips passam por uma staging area, que o caller deve fechar.
func stageSource(ctx context.Context, logger *slog.Logger, plan sourcePlan) (string, *importer.StagingArea, error) {
	if plan.fetcher == nil {
		if !plan.archive {
			return plan.localPath, nil, nil
		}

		staging, err := importer.NewStagingArea()
		if err != nil {
			return "", nil, err
		}

		localPath, err := staging.ExtractArchive(plan.localPath)
		if err != nil {
			staging.Close()
			return "", nil, err
		}
		return localPath, staging, nil
	}

	staging, err := importer.NewStagingArea()
	if err != nil {
		return "", nil, err
	}

	logger.Info("Downloading source", "host", plan.remote.Host, "path", plan.remote.Path)

	localPath, err := staging.FetchSource(ctx, plan.fetcher, plan.remote.Path)
	if err != nil {
		staging.Close()
		return "", nil, err
	}

	return localPath, staging, nil
}

func promptPassword(user string, host string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", user, host)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func runImport(ctx context.Context, logger *slog.Logger, path string, chunkSize int) (importer.ImportStats, error) {
	dbHost := env.MustGetString("DB_HOST")
	dbPort := env.GetString("DB_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 10)

	pool, err := postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
	if err != nil {
		return importer.ImportStats{}, err
	}
	defer pool.Close()

	datasetWriteRepository := repositories.NewDatasetWriteRepository(pool)
	importService := importer.NewImportService(logger, datasetWriteRepository)

	return importService.ImportFromFile(ctx, path, chunkSize)
}

func flushProfileCache(ctx context.Context, logger *slog.Logger) {
	addrs := env.GetString("REDIS_ADDRS", "")
	if addrs == "" {
		return
	}

	poolSize := env.GetInt("REDIS_POOL_SIZE", 10)
	ttl := env.GetDuration("REDIS_TTL", 15*time.Minute)

	redisClient := redis.NewRedisClient(addrs, poolSize, ttl)
	cachedRepository := repositories.NewCachedProfileRepository(nil, redisClient)

	if err := cachedRepository.InvalidateAll(ctx); err != nil {
		logger.Warn("Failed to flush profile cache", "error", err)
		return
	}
	logger.Info("Profile cache flushed")
}

func publishDatasetReplaced(ctx context.Context, logger *slog.Logger, source string, stats importer.ImportStats) {
	brokers := env.GetString("KAFKA_BROKERS", "")
	if brokers == "" {
		return
	}
	topic := env.GetString("KAFKA_TOPIC", "afval.dataset.events")

	kafkaClient, err := kafka.NewKafkaClient(brokers)
	if err != nil {
		logger.Warn("Failed to create Kafka client", "error", err)
		return
	}
	defer kafkaClient.Close()

	publisher := events.NewImportEventPublisher(logger, kafkaClient, topic)

	event := domain.DatasetReplacedEvent{
		Source:         source,
		CitizenCount:   stats.Citizens,
		ContainerCount: stats.Containers,
		LocationCount:  stats.Locations,
		EmptyingCount:  stats.Emptyings,
		RowsRead:       stats.RowsRead,
		RowsSkipped:    stats.RowsSkipped,
		ReplacedAt:     time.Now().UTC(),
	}

	if err := publisher.PublishDatasetReplaced(ctx, event); err != nil {
		logger.Warn("Failed to publish dataset replaced event", "error", err)
	}
}
