// Command dashreport loads the CSV tables once and writes the dashboard as a
// markdown report and, optionally, an XLSX workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"ecomdash/api/database"
	"ecomdash/api/export"
	"ecomdash/api/models"
	"ecomdash/api/store"
)

var (
	dataDir  = flag.String("data", "dashboard", "directory holding the three CSV tables")
	out      = flag.String("out", "report.md", "markdown report path, empty to skip")
	xlsxPath = flag.String("xlsx", "", "optional XLSX workbook path")
	charts   = flag.Bool("charts", true, "embed chart images in the workbook")
	year     = flag.Int("year", 2017, "year of the monthly order panel")
	mode     = flag.String("mode", models.ModeSize, "total orders mode: size (rows x columns) or rows")
	freqBins = flag.Int("frequency-bins", 30, "histogram bins for frequency")
	recBins  = flag.Int("recency-bins", 20, "histogram bins for recency")
	monBins  = flag.Int("monetary-bins", 20, "histogram bins for monetary")
)

func main() {
	flag.Parse()
	if *mode != models.ModeSize && *mode != models.ModeRows {
		log.Fatalf("invalid -mode %q", *mode)
	}

	src := database.NewCSVSource(*dataDir)
	bar := progressbar.Default(3, "loading tables")
	src.OnTable = func(string) { _ = bar.Add(1) }

	s := store.NewAnalyticsStore(src, store.Options{
		Year:            *year,
		TotalOrdersMode: *mode,
		FrequencyBins:   *freqBins,
		RecencyBins:     *recBins,
		MonetaryBins:    *monBins,
	})
	if err := s.Reload(context.Background()); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	r, err := s.Report()
	if err != nil {
		log.Fatal(err)
	}

	printSummary(r)
	printMonthlyOrders(r)
	printSegments(r)

	if *out != "" {
		if err := writeFile(*out, func(f *os.File) error { return export.WriteMarkdown(f, r) }); err != nil {
			log.Fatalf("write %s: %v", *out, err)
		}
		color.Green("Markdown report written to %s", *out)
	}
	if *xlsxPath != "" {
		if err := writeFile(*xlsxPath, func(f *os.File) error { return export.WriteWorkbook(f, r, *charts) }); err != nil {
			log.Fatalf("write %s: %v", *xlsxPath, err)
		}
		color.Green("Workbook written to %s", *xlsxPath)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(r *models.Report) {
	s := r.Summary
	color.Cyan("\n=== E-Commerce Data Analysis (%s) ===", r.Source)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total Orders", strconv.Itoa(s.TotalOrders)})
	table.Append([]string{"Payment rows", strconv.Itoa(s.PaymentRows)})
	table.Append([]string{"Total Income", s.TotalIncomeDisplay})
	table.Append([]string{fmt.Sprintf("Total Orders in %d", s.Year), strconv.Itoa(s.OrdersInYear)})
	table.Append([]string{fmt.Sprintf("Growth in %d", s.Year), s.GrowthDisplay})
	table.Render()

	if s.TotalOrdersMode == models.ModeSize {
		color.Yellow("Total Orders is rows x columns (%d x %d); rerun with -mode rows for the row count.", s.PaymentRows, s.PaymentColumns)
	}
}

func printMonthlyOrders(r *models.Report) {
	color.Yellow("\nOrders in %d", r.Summary.Year)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Month", "Order Count"})
	for _, m := range r.MonthlyOrders {
		table.Append([]string{m.Label, strconv.Itoa(m.Count)})
	}
	table.Render()
}

func printSegments(r *models.Report) {
	color.Yellow("\nUser Segmentation")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Segment", "User Count", "Share"})
	for _, seg := range r.Segments {
		table.Append([]string{seg.Segment, strconv.Itoa(seg.Count), fmt.Sprintf("%.1f%%", seg.Share*100)})
	}
	table.Render()
}
