// Package export dumps Apex query results and simulation curves to CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

var (
	ErrUnsupportedValue = errors.New("export: unsupported value type")
	ErrInvalidText      = errors.New("export: text is not valid UTF-8")
)

// SkipFunc is called for a row that could not be written. Writing continues.
type SkipFunc func(index int, row map[string]interface{}, err error)

// Writer writes map rows under a fixed header. The header is written at most once.
type Writer struct {
	csv           *csv.Writer
	header        []string
	headerWritten bool
	onSkip        SkipFunc

	index   int
	written int
	skipped int
}

// NewWriter creates a Writer. Set headerDone when appending to a file that already has one.
func NewWriter(w io.Writer, header []string, headerDone bool, onSkip SkipFunc) *Writer {
	return &Writer{
		csv:           csv.NewWriter(w),
		header:        header,
		headerWritten: headerDone,
		onSkip:        onSkip,
	}
}

// WriteHeader writes the header if it has not been written yet.
func (w *Writer) WriteHeader() error {
	if w.headerWritten {
		return nil
	}
	if err := w.csv.Write(w.header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.headerWritten = true
	return nil
}

// WriteRow encodes one row. A row whose values cannot be encoded is reported to
// the SkipFunc and skipped; only I/O failures are returned.
func (w *Writer) WriteRow(row map[string]interface{}) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	idx := w.index
	w.index++

	record := make([]string, len(w.header))
	for i, col := range w.header {
		s, err := FormatValue(row[col])
		if err != nil {
			w.skipped++
			if w.onSkip != nil {
				w.onSkip(idx, row, fmt.Errorf("column %s: %w", col, err))
			}
			return nil
		}
		record[i] = s
	}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write row %d: %w", idx, err)
	}
	w.written++
	return nil
}

// WriteRecord writes an already formatted record.
func (w *Writer) WriteRecord(record []string) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	w.index++
	if err := w.csv.Write(record); err != nil {
		return err
	}
	w.written++
	return nil
}

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

// Written is the number of data rows written.
func (w *Writer) Written() int { return w.written }

// Skipped is the number of rows reported to the SkipFunc.
func (w *Writer) Skipped() int { return w.skipped }

// FormatValue renders a scanned database value as CSV text. NULL becomes "".
func FormatValue(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		if !utf8.ValidString(x) {
			return "", ErrInvalidText
		}
		return x, nil
	case []byte:
		if !utf8.Valid(x) {
			return "", ErrInvalidText
		}
		return string(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("%w: non-finite float %v", ErrUnsupportedValue, x)
		}
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case bool:
		return strconv.FormatBool(x), nil
	case time.Time:
		return x.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
