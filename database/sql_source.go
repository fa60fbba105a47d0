package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"

	"ecomdash/api/models"
)

// SQLSource reads the three tables from PostgreSQL or MySQL.
type SQLSource struct {
	DB      *sql.DB
	Dialect string // "postgres" or "mysql"
}

func (s *SQLSource) Name() string { return s.Dialect }

func (s *SQLSource) Load(ctx context.Context) (*models.Dataset, error) {
	tables := make(map[string]rawTable, 3)
	for _, spec := range []tableSpec{paymentsSpec, ordersSpec, customersSpec} {
		t, err := s.readTable(ctx, spec)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded %s.%s: %d rows x %d columns", s.Dialect, spec.name, t.shape.Rows, t.shape.Columns)
		tables[spec.name] = t
	}
	return assemble(s.Name(), tables[PaymentsTable], tables[OrdersTable], tables[CustomersTable])
}

func (s *SQLSource) columnsQuery() string {
	if s.Dialect == "mysql" {
		return `SELECT column_name FROM information_schema.columns
			WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position`
	}
	return `SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position`
}

func (s *SQLSource) textExpr(col string) string {
	if s.Dialect == "mysql" {
		return fmt.Sprintf("CAST(`%s` AS CHAR)", col)
	}
	return fmt.Sprintf(`"%s"::text`, col)
}

func (s *SQLSource) tableRef(name string) string {
	if s.Dialect == "mysql" {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

func (s *SQLSource) readTable(ctx context.Context, spec tableSpec) (rawTable, error) {
	present, err := s.listColumns(ctx, spec.name)
	if err != nil {
		return rawTable{}, err
	}
	t, err := newRawTable(spec, present)
	if err != nil {
		return rawTable{}, err
	}

	selected := selectable(spec, present)
	exprs := make([]string, len(selected))
	for i, c := range selected {
		exprs[i] = s.textExpr(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), s.tableRef(spec.name))

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return rawTable{}, errors.Wrapf(err, "query %s", spec.name)
	}
	defer rows.Close()

	vals := make([]sql.NullString, len(selected))
	dest := make([]any, len(selected))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return rawTable{}, errors.Wrapf(err, "scan %s row %d", spec.name, t.shape.Rows+1)
		}
		for i, c := range selected {
			t.columns[c] = append(t.columns[c], vals[i].String)
		}
		t.shape.Rows++
	}
	if err := rows.Err(); err != nil {
		return rawTable{}, errors.Wrapf(err, "iterate %s", spec.name)
	}
	return t, nil
}

func (s *SQLSource) listColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, s.columnsQuery(), table)
	if err != nil {
		return nil, errors.Wrapf(err, "list columns of %s", table)
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, errors.Wrapf(err, "list columns of %s", table)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "list columns of %s", table)
	}
	if len(cols) == 0 {
		return nil, errors.Errorf("table %s not found", table)
	}
	return cols, nil
}

// selectable returns the referenced columns that exist in the table.
func selectable(spec tableSpec, present []string) []string {
	seen := make(map[string]bool, len(present))
	for _, c := range present {
		seen[c] = true
	}
	var out []string
	for _, c := range spec.wanted() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}
