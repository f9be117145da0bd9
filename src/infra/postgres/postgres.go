package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPostgresClient(host string, port string, dbname string, username string, password string, maxConnections int) (*pgxpool.Pool, error) {
	dbConfig := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", username, password, host, port, dbname)

	config, err := pgxpool.ParseConfig(dbConfig)
	if err != nil {
		fmt.Printf("failed to parse postgres config: %s\n", err.Error())
		return nil, err
	}

	config.MaxConns = int32(maxConnections) //nolint:all
	config.MinConns = 1

	// Idle timeout - economiza recursos
	config.MaxConnIdleTime = 5 * time.Minute

	// Lifetime das conexões - evita problemas de timeout do PostgreSQL
	config.MaxConnLifetime = 30 * time.Minute

	// Health check interval
	config.HealthCheckPeriod = 1 * time.Minute

	config.ConnConfig.RuntimeParams = map[string]string{
		// O pipeline de import assume timestamps em UTC
		"timezone":     "UTC",
		"lock_timeout": "10s",
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return pool, nil
}

func NewNullString(s *string) pgtype.Text {
	if s == nil || len(*s) == 0 {
		return pgtype.Text{Status: pgtype.Null}
	}
	return pgtype.Text{
		String: *s,
		Status: pgtype.Present,
	}
}

// NewNullDate monta um argumento DATE opcional para os filtros de período.
func NewNullDate(t *time.Time) pgtype.Date {
	if t == nil || t.IsZero() {
		return pgtype.Date{Status: pgtype.Null}
	}
	return pgtype.Date{
		Time:   *t,
		Status: pgtype.Present,
	}
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Verifica se o código é de violação de chave única
		if pgErr.Code == "23505" {
			return true
		}
	}

	return false
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" {
			return true
		}
	}

	return false
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
