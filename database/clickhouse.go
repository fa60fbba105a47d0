package database

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/pkg/errors"

	"ecomdash/api/models"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

type ClickHouseConfig struct {
	Host       string
	NativePort string
	Database   string
	Username   string
	Password   string
}

func NewClickHouseDB(cfg ClickHouseConfig) (*ClickHouseClient, error) {
	if cfg.Host == "" || cfg.NativePort == "" || cfg.Database == "" {
		return nil, fmt.Errorf("CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT, or CLICKHOUSE_DB_NAME environment variables are not set")
	}

	nativePort, err := strconv.Atoi(cfg.NativePort)
	if err != nil {
		return nil, fmt.Errorf("invalid CLICKHOUSE_NATIVE_PORT: %w", err)
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, nativePort)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "ecomdash-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Println("Successfully connected to ClickHouse database via Native TCP!")
	return &ClickHouseClient{Conn: conn}, nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		log.Println("ClickHouse connection closed.")
	}
}

// ClickHouseSource reads the three tables from the current ClickHouse database.
type ClickHouseSource struct {
	Client *ClickHouseClient
}

func (s *ClickHouseSource) Name() string { return "clickhouse" }

func (s *ClickHouseSource) Load(ctx context.Context) (*models.Dataset, error) {
	tables := make(map[string]rawTable, 3)
	for _, spec := range []tableSpec{paymentsSpec, ordersSpec, customersSpec} {
		t, err := s.readTable(ctx, spec)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded clickhouse.%s: %d rows x %d columns", spec.name, t.shape.Rows, t.shape.Columns)
		tables[spec.name] = t
	}
	return assemble(s.Name(), tables[PaymentsTable], tables[OrdersTable], tables[CustomersTable])
}

func (s *ClickHouseSource) readTable(ctx context.Context, spec tableSpec) (rawTable, error) {
	colRows, err := s.Client.Conn.Query(ctx, `
		SELECT name FROM system.columns
		WHERE database = currentDatabase() AND table = ?
		ORDER BY position
	`, spec.name)
	if err != nil {
		return rawTable{}, errors.Wrapf(err, "list columns of %s", spec.name)
	}
	var present []string
	for colRows.Next() {
		var name string
		if err := colRows.Scan(&name); err != nil {
			colRows.Close()
			return rawTable{}, errors.Wrapf(err, "list columns of %s", spec.name)
		}
		present = append(present, name)
	}
	colRows.Close()
	if len(present) == 0 {
		return rawTable{}, errors.Errorf("table %s not found", spec.name)
	}

	t, err := newRawTable(spec, present)
	if err != nil {
		return rawTable{}, err
	}

	selected := selectable(spec, present)
	exprs := make([]string, len(selected))
	for i, c := range selected {
		exprs[i] = fmt.Sprintf("ifNull(toString(`%s`), '')", c)
	}
	query := fmt.Sprintf("SELECT %s FROM `%s`", strings.Join(exprs, ", "), spec.name)

	rows, err := s.Client.Conn.Query(ctx, query)
	if err != nil {
		return rawTable{}, errors.Wrapf(err, "query %s", spec.name)
	}
	defer rows.Close()

	vals := make([]string, len(selected))
	dest := make([]any, len(selected))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return rawTable{}, errors.Wrapf(err, "scan %s row %d", spec.name, t.shape.Rows+1)
		}
		for i, c := range selected {
			t.columns[c] = append(t.columns[c], vals[i])
		}
		t.shape.Rows++
	}
	if err := rows.Err(); err != nil {
		return rawTable{}, errors.Wrapf(err, "iterate %s", spec.name)
	}
	return t, nil
}
