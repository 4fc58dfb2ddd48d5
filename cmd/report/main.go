// Command report calculates a project's design heat load and renders it as
// CSV or JSON. It uses the actual calculation domain package, so the figures
// match what the service publishes; with a frozen -at timestamp the output
// is reproducible and doubles as a test fixture.
//
// Site references are resolved against the built-in reference table, which
// -site-table prints.
//
// Usage:
//
//	go run ./cmd/report -project data/fixtures/demo-house.yaml -format json \
//	  -at 2026-01-12T09:30:00Z -out /tmp/demo-house-report.json
//	go run ./cmd/report -site-table
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/thermaldesk/heatload-service/internal/adapter/climate"
	"github.com/thermaldesk/heatload-service/internal/domain"
	"github.com/thermaldesk/heatload-service/internal/projectfile"
	"github.com/thermaldesk/heatload-service/internal/report"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	project := flag.String("project", "", "path to a project file (.yaml, .yml or .json)")
	format := flag.String("format", "csv", "output format: csv or json")
	out := flag.String("out", "", "output path (default stdout)")
	at := flag.String("at", "", "RFC3339 calculation timestamp, for reproducible fixtures")
	siteTable := flag.Bool("site-table", false, "print the built-in climate reference sites and exit")
	flag.Parse()

	if *siteTable {
		printSiteTable()
		return nil
	}
	if *project == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -project")
	}
	if *format != "csv" && *format != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", *format)
	}

	if *at != "" {
		fixed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("parsing -at: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(fixed))
		defer domain.SetClock(nil)
	}

	doc, err := projectfile.Load(*project)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	record, err := domain.ResolveClimate(context.Background(), doc, climate.StaticResolver{}, logger)
	if err != nil {
		return fmt.Errorf("resolving climate: %w", err)
	}

	b, err := domain.CompileBuilding(doc, record)
	if err != nil {
		return err
	}
	rep := domain.BuildLoadReport(doc.Name, b)

	if *out == "" {
		return writeReport(os.Stdout, rep, *format)
	}
	if err := writeReportFile(*out, rep, *format); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	log.Printf("wrote %s report: %s", *format, *out)

	printFigures(rep)
	return nil
}

func writeReport(w io.Writer, rep domain.LoadReport, format string) error {
	if format == "json" {
		return report.WriteJSON(w, rep)
	}
	return report.WriteCSV(w, rep)
}

func writeReportFile(path string, rep domain.LoadReport, format string) error {
	var buf bytes.Buffer
	if err := writeReport(&buf, rep, format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

func printSiteTable() {
	fmt.Printf("%-14s %7s %7s %8s %10s %9s\n",
		"site", "T_e_d", "T_e_an", "T_e_min", "elevation", "gradient")
	for _, rec := range climate.Sites() {
		fmt.Printf("%-14s %7.1f %7.1f %8.1f %9.0fm %6.3fK/m\n",
			rec.Site, rec.DesignTemp, rec.AnnualMean, rec.MinMonthlyMean, rec.Elevation, rec.Gradient)
	}
}

// printFigures prints the exact calculated figures, so test assertions can
// be updated after a fixture regeneration without hand-calculating.
func printFigures(rep domain.LoadReport) {
	fmt.Println("\n=== Figures for test assertions ===")
	fmt.Printf("Climate: site=%s T_e_d=%g T_e_an=%g\n",
		rep.Climate.Site, rep.Climate.DesignTemp, rep.Climate.AnnualMean)

	b := rep.Building
	fmt.Printf("Building %q: load=%g transmission=%g ventilation=%g heating_up=%g gains=%g\n",
		b.Name, b.Load, b.Transmission, b.Ventilation, b.HeatingUp, b.Gains)
	for _, e := range b.Entities {
		fmt.Printf("  entity %q: load=%g\n", e.Name, e.Load)
		for _, z := range e.Zones {
			fmt.Printf("    zone %q: ventilation=%g\n", z.Name, z.Ventilation)
			for _, s := range z.Spaces {
				fmt.Printf("      space %q: load=%g transmission=%g ventilation=%g heating_up=%g air_temp=%g\n",
					s.Name, s.Load, s.Transmission, s.Ventilation, s.HeatingUp, s.AirTemp)
			}
		}
	}
}
