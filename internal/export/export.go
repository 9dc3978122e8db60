// Package export writes daily metric trends to Parquet or CSV files, one
// row per day with absent metrics left empty
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"

	"peak/internal/store"
)

// Format is an export file format
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatParquet, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want %q or %q)", s, FormatParquet, FormatCSV)
	}
}

// DayRow is one day of metrics in the exported file. Absent metrics are null.
type DayRow struct {
	// Date is local midnight of the day
	Date time.Time `parquet:"date,snappy"`

	HRV            *float64 `parquet:"hrv_ms,optional,snappy"`
	RestingHR      *float64 `parquet:"resting_hr_bpm,optional,snappy"`
	AvgHR          *float64 `parquet:"avg_hr_bpm,optional,snappy"`
	SleepHours     *float64 `parquet:"sleep_hours,optional,snappy"`
	Steps          *int64   `parquet:"steps,optional,snappy"`
	ActiveCalories *float64 `parquet:"active_kcal,optional,snappy"`
	Readiness      *int32   `parquet:"readiness,optional,snappy"`
}

// Rows converts daily metrics into export rows
func Rows(days []store.DailyMetrics) []DayRow {
	rows := make([]DayRow, 0, len(days))
	for _, d := range days {
		row := DayRow{
			Date:           d.Date,
			HRV:            d.HRV,
			RestingHR:      d.RestingHR,
			AvgHR:          d.AvgHR,
			SleepHours:     d.SleepHours,
			ActiveCalories: d.ActiveCalories,
		}
		if d.Steps != nil {
			v := int64(*d.Steps)
			row.Steps = &v
		}
		if d.Readiness != nil {
			v := int32(*d.Readiness)
			row.Readiness = &v
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteFile writes days to path in the given format
func WriteFile(days []store.DailyMetrics, format Format, path string) error {
	switch format {
	case FormatParquet:
		return WriteParquet(days, path)
	case FormatCSV:
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		if err := WriteCSV(file, days); err != nil {
			_ = file.Close()
			return err
		}
		return file.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteParquet writes days to a Parquet file at path
func WriteParquet(days []store.DailyMetrics, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[DayRow](file)
	if _, err := writer.Write(Rows(days)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return file.Close()
}

var csvHeader = []string{"date", "hrv_ms", "resting_hr_bpm", "avg_hr_bpm", "sleep_hours", "steps", "active_kcal", "readiness"}

// WriteCSV writes days as CSV with a header row. Absent metrics are empty cells.
func WriteCSV(w io.Writer, days []store.DailyMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, d := range days {
		record := []string{
			d.DateKey(),
			formatFloat(d.HRV),
			formatFloat(d.RestingHR),
			formatFloat(d.AvgHR),
			formatFloat(d.SleepHours),
			formatInt(d.Steps),
			formatFloat(d.ActiveCalories),
			formatInt(d.Readiness),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
