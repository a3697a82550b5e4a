// Package catalog loads the assessment catalog and exposes it as read-only,
// process-wide state.
package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf8"
)

// ErrMissingColumn is returned when the source lacks a column the scoring
// pipeline cannot work without.
var ErrMissingColumn = errors.New("required catalog column is missing")

var requiredColumns = []string{ColumnTitle, ColumnDescription}

// Catalog is the immutable table of assessments. It is safe for concurrent use.
type Catalog struct {
	records []Record
	source  string
}

// Options control how a catalog file is read.
type Options struct {
	// Encoding of CSV sources: latin1 (default) or utf8.
	Encoding string
	Logger   *zap.Logger
}

// New builds a catalog from records. The slice is copied.
func New(records []Record) *Catalog {
	return &Catalog{records: slices.Clone(records), source: "memory"}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Source describes where the catalog was loaded from.
func (c *Catalog) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}

// Records returns a private copy of the records in load order.
func (c *Catalog) Records() []Record {
	if c == nil {
		return nil
	}
	return slices.Clone(c.records)
}

// Load reads a catalog from a .csv or .json file.
func Load(path string, opts Options) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog path is empty")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer file.Close()

	var records []Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		records, err = ReadJSON(file)
	default:
		var reader io.Reader
		reader, err = decodingReader(file, opts.Encoding)
		if err == nil {
			records, err = ReadCSV(reader, logger)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", path, err)
	}

	logger.Info("catalog loaded", zap.String("path", path), zap.Int("records", len(records)))

	return &Catalog{records: records, source: path}, nil
}

func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingLatin1, "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case EncodingUTF8, "utf-8":
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported catalog encoding %q", encoding)
	}
}

// ReadCSV parses a UTF-8 CSV stream with a header row.
func ReadCSV(r io.Reader, logger *zap.Logger) ([]Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, name := range header {
		columns[i] = NormalizeColumn(name)
		present[columns[i]] = true
	}

	for _, column := range requiredColumns {
		if !present[column] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if len(row) != len(columns) {
			logger.Debug("catalog row has unexpected field count",
				zap.Int("line", line),
				zap.Int("fields", len(row)),
				zap.Int("columns", len(columns)),
			)
		}

		fields := make(map[string]string, len(columns))
		for i, column := range columns {
			if i < len(row) {
				fields[column] = row[i]
			}
		}

		records = append(records, recordFromFields(fields))
	}

	return records, nil
}

// ReadJSON parses an array of objects keyed by column name.
func ReadJSON(r io.Reader) ([]Record, error) {
	var rows []map[string]any
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]string, len(row))
		for key, value := range row {
			fields[NormalizeColumn(key)] = stringify(value)
		}
		records = append(records, recordFromFields(fields))
	}

	return records, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", val)
	}
}
