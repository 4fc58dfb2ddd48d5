// Package report renders calculated load reports for files and terminals.
// The service publishes reports as JSON messages; this package serves the
// offline report command, which writes the same figures as CSV or indented
// JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/thermaldesk/heatload-service/internal/domain"
)

var csvHeader = []string{
	"name",
	"transmission heat loss",
	"ventilation heat loss",
	"heating-up power",
	"total heat loss",
}

// WriteCSV renders the report as one CSV table: a building row, then per
// entity its row followed by its zones and their spaces. Zone rows only
// carry a ventilation loss; elements belong to spaces, so a zone has no
// transmission figure of its own.
func WriteCSV(w io.Writer, rep domain.LoadReport) error {
	rows := [][]string{csvHeader, lossRow(rep.Building.Name, rep.Building.Transmission, rep.Building.Ventilation, rep.Building.HeatingUp, rep.Building.Load)}
	for _, e := range rep.Building.Entities {
		rows = append(rows, lossRow(e.Name, e.Transmission, e.Ventilation, e.HeatingUp, e.Load))
		for _, z := range e.Zones {
			rows = append(rows, []string{z.Name, "", watts(z.Ventilation), "", ""})
			for _, s := range z.Spaces {
				rows = append(rows, lossRow(s.Name, s.Transmission, s.Ventilation, s.HeatingUp, s.Load))
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write report CSV: %w", err)
	}
	return nil
}

// WriteJSON renders the report as indented JSON, the same document the
// service publishes to the sink topic.
func WriteJSON(w io.Writer, rep domain.LoadReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("write report JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report JSON: %w", err)
	}
	return nil
}

func lossRow(name string, transmission, ventilation, heatingUp, load float64) []string {
	return []string{name, watts(transmission), watts(ventilation), watts(heatingUp), watts(load)}
}

// watts formats a heat flow to a tenth of a watt, which is already well
// beyond the accuracy of the input data.
func watts(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
