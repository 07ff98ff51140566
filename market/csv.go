package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing the date column. The second
// form is what pandas writes for a DatetimeIndex.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LoadCSV reads a cached daily-close file from disk.
func LoadCSV(path string) (*PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadCSV parses daily closes. The first row must be a header naming a
// "Close" column; the date column is the one headed "Date" or, failing that,
// an unnamed first column. Other columns are ignored and rows with an empty
// close are skipped.
func ReadCSV(r io.Reader) (*PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ValidationError{Index: -1, Reason: "empty file"}
	}
	if err != nil {
		return nil, err
	}

	dateCol, closeCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "time":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 && len(header) > 0 && strings.TrimSpace(header[0]) == "" {
		dateCol = 0
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, &ValidationError{Index: -1, Reason: fmt.Sprintf("header %v needs date and close columns", header)}
	}

	var points []PricePoint
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		if len(rec) <= dateCol || len(rec) <= closeCol {
			return nil, &ValidationError{Index: row, Reason: "short row"}
		}

		raw := strings.TrimSpace(rec[closeCol])
		if raw == "" || strings.EqualFold(raw, "nan") {
			continue
		}

		day, err := parseDate(strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return nil, &ValidationError{Index: row, Reason: err.Error()}
		}
		px, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &ValidationError{Index: row, Reason: fmt.Sprintf("bad close %q", raw)}
		}
		points = append(points, PricePoint{Date: day, Close: px})
	}

	return NewPriceSeries(points)
}

// WriteCSV stores s in the format ReadCSV accepts.
func WriteCSV(path string, s *PriceSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Close"}); err != nil {
		f.Close()
		return err
	}
	for _, p := range s.points {
		if err := w.Write([]string{p.Day(), p.Close.String()}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CalendarDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}
