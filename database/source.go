package database

import (
	"context"
	"fmt"
	"os"

	"ecomdash/api/models"
)

// Source loads one snapshot of the dashboard tables.
type Source interface {
	Name() string
	Load(ctx context.Context) (*models.Dataset, error)
}

// Open returns the Source selected by kind and a function releasing its connection.
func Open(kind, dataDir string) (Source, func(), error) {
	switch kind {
	case "", "csv":
		return NewCSVSource(dataDir), func() {}, nil
	case "postgres":
		client, err := NewPostgresDB(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, nil, err
		}
		return &SQLSource{DB: client.DB, Dialect: "postgres"}, client.Close, nil
	case "mysql":
		client, err := NewMySQLDB(os.Getenv("MYSQL_DSN"))
		if err != nil {
			return nil, nil, err
		}
		return &SQLSource{DB: client.DB, Dialect: "mysql"}, client.Close, nil
	case "clickhouse":
		client, err := NewClickHouseDB(ClickHouseConfig{
			Host:       os.Getenv("CLICKHOUSE_HOST"),
			NativePort: os.Getenv("CLICKHOUSE_NATIVE_PORT"),
			Database:   os.Getenv("CLICKHOUSE_DB_NAME"),
			Username:   os.Getenv("CLICKHOUSE_USERNAME"),
			Password:   os.Getenv("CLICKHOUSE_PASSWORD"),
		})
		if err != nil {
			return nil, nil, err
		}
		return &ClickHouseSource{Client: client}, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", kind)
	}
}
