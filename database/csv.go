package database

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"ecomdash/api/models"
)

// CSV file names inside the data directory.
var csvFiles = map[string]string{
	PaymentsTable:  "orders_with_payments.csv",
	OrdersTable:    "orders.csv",
	CustomersTable: "customer_rfm.csv",
}

// CSVSource reads the three tables from a directory of CSV files.
type CSVSource struct {
	Dir string
	// OnTable, when set, is called after each table is read.
	OnTable func(table string)
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

func (s *CSVSource) Name() string { return "csv:" + s.Dir }

func (s *CSVSource) Load(ctx context.Context) (*models.Dataset, error) {
	tables := make(map[string]rawTable, 3)
	for _, spec := range []tableSpec{paymentsSpec, ordersSpec, customersSpec} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.Dir, csvFiles[spec.name])
		t, err := readCSVFile(path, spec)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded %s: %d rows x %d columns", path, t.shape.Rows, t.shape.Columns)
		tables[spec.name] = t
		if s.OnTable != nil {
			s.OnTable(spec.name)
		}
	}
	return assemble(s.Name(), tables[PaymentsTable], tables[OrdersTable], tables[CustomersTable])
}

func readCSVFile(path string, spec tableSpec) (rawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return rawTable{}, errors.Wrapf(err, "open %s", spec.name)
	}
	defer f.Close()
	return readCSV(f, spec)
}

// readCSV loads every column as text; typed parsing happens in the decoders.
func readCSV(r io.Reader, spec tableSpec) (rawTable, error) {
	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return rawTable{}, errors.Wrapf(df.Err, "read %s", spec.name)
	}

	t, err := newRawTable(spec, df.Names())
	if err != nil {
		return rawTable{}, err
	}
	t.shape.Rows = df.Nrow()
	for _, c := range spec.wanted() {
		col := df.Col(c)
		if col.Err != nil {
			continue
		}
		t.columns[c] = col.Records()
	}
	return t, nil
}
