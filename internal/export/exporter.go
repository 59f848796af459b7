package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"temperature-dashboard/internal/models"
	"go.uber.org/zap"
)

// csvHeader is the exact export column set, in order.
var csvHeader = []string{
	"City",
	"Min Temp (°C)",
	"Max Temp (°C)",
	"Current Condition",
	"Humidity (%)",
	"Wind Speed (km/h)",
	"Fetched At",
}

// Exporter writes a ResultSet to timestamped CSV and JSON files under a
// dedicated output directory, created on first use.
type Exporter struct {
	outputDir string
	logger    *zap.Logger
}

func NewExporter(outputDir string, logger *zap.Logger) *Exporter {
	return &Exporter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// ExportCSV writes rs sorted by max temperature descending and returns the
// file path. Returns ErrNoData when rs is empty; no file is created.
func (e *Exporter) ExportCSV(rs models.ResultSet) (string, error) {
	if len(rs) == 0 {
		return "", models.ErrNoData
	}

	sorted := make(models.ResultSet, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxTempC > sorted[j].MaxTempC
	})

	path, err := e.write(e.fileName("csv"), func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		for _, record := range sorted {
			row := []string{
				record.City,
				formatFloat(record.MinTempC),
				formatFloat(record.MaxTempC),
				record.Condition,
				strconv.Itoa(record.HumidityPercent),
				formatFloat(record.WindSpeedKmh),
				record.FetchedAt.String(),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		return "", err
	}

	e.logger.Info("Data exported to CSV",
		zap.String("path", path),
		zap.Int("records", len(sorted)))

	return path, nil
}

// ExportJSON writes rs in original order, pretty-printed with two-space
// indentation and HTML escaping disabled so non-ASCII text stays literal.
// Returns ErrNoData when rs is empty; no file is created.
func (e *Exporter) ExportJSON(rs models.ResultSet) (string, error) {
	if len(rs) == 0 {
		return "", models.ErrNoData
	}

	path, err := e.write(e.fileName("json"), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rs)
	})
	if err != nil {
		return "", err
	}

	e.logger.Info("Data exported to JSON",
		zap.String("path", path),
		zap.Int("records", len(rs)))

	return path, nil
}

func (e *Exporter) fileName(ext string) string {
	return fmt.Sprintf("temperature_data_%s.%s", time.Now().Format("20060102_150405"), ext)
}

// write creates the output directory if needed and writes through a temp
// file renamed into place, so a failed write never leaves a partial export
// behind under the final name.
func (e *Exporter) write(name string, fill func(f *os.File) error) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(e.outputDir, name+".tmp")
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}

	if err := fill(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing export file: %w", err)
	}

	path := filepath.Join(e.outputDir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalizing export file: %w", err)
	}

	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
