package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReadWriteClient separa leitura e escrita: as consultas da API vão
// pelo read pool, o write pool aponta para o primário e entra no
// health check do servidor.
type ReadWriteClient struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
}

func NewReadWriteClient(
	readHost string,
	writeHost string,
	readPort string,
	writePort string,
	dbname string,
	username string,
	password string,
	maxConnections int,
) (*ReadWriteClient, error) {

	readPool, err := NewPostgresClient(readHost, readPort, dbname, username, password, maxConnections)
	if err != nil {
		return nil, err
	}

	writePool, err := NewPostgresClient(writeHost, writePort, dbname, username, password, maxConnections)
	if err != nil {
		return nil, err
	}

	return &ReadWriteClient{
		readPool:  readPool,
		writePool: writePool,
	}, nil
}

func (rwc *ReadWriteClient) GetReadPool() *pgxpool.Pool {
	return rwc.readPool
}

// Ping verifica os dois pools: a réplica e o primário precisam responder.
func (rwc *ReadWriteClient) Ping(ctx context.Context) error {
	if err := rwc.readPool.Ping(ctx); err != nil {
		return fmt.Errorf("ReadWriteClient.Ping - read pool: %w", err)
	}

	if err := rwc.writePool.Ping(ctx); err != nil {
		return fmt.Errorf("ReadWriteClient.Ping - write pool: %w", err)
	}

	return nil
}
