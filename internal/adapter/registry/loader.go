// Package registry loads the facility registry from a delimited text file or
// an Excel workbook into a domain.Table.
package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/couchcryptid/health-facility-map/internal/domain"
)

// ErrMissingColumn is returned when a required registry column is absent.
var ErrMissingColumn = errors.New("registry: missing required column")

// ErrEmpty is returned when the source has no header row.
var ErrEmpty = errors.New("registry: no header row")

const utf8BOM = "\ufeff"

// Options controls how delimited files are decoded. Excel workbooks ignore it.
type Options struct {
	Delimiter rune   // defaults to ','
	Encoding  string // "utf-8" (default), "latin1", "windows-1252"
}

// Load reads the registry at path. Files ending in .xlsx are read from the
// first worksheet; anything else is parsed as delimited text.
func Load(path string, opts Options) (*domain.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadWorkbook(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	table, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Read parses delimited registry text from r.
func Read(r io.Reader, opts Options) (*domain.Table, error) {
	decoded, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.Comma = opts.Delimiter
	if cr.Comma == 0 {
		cr.Comma = ','
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return fromRows(rows)
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("registry: unsupported encoding %q", encoding)
	}
}

func loadWorkbook(path string) (*domain.Table, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open registry workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	table, err := fromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// fromRows maps raw rows (header first) onto facilities, preserving row order
// and every column.
func fromRows(rows [][]string) (*domain.Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}

	header := make([]string, len(rows[0]))
	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		header[i] = h
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}
	for _, col := range domain.RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	table := &domain.Table{
		Columns:    header,
		Facilities: make([]domain.Facility, 0, len(rows)-1),
	}
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		get := func(col string) string {
			if i := index[col]; i < len(row) {
				return row[i]
			}
			return ""
		}
		f := domain.Facility{
			Row:          n + 1,
			Name:         strings.TrimSpace(get(domain.ColumnName)),
			Category:     strings.TrimSpace(get(domain.ColumnCategory)),
			Street:       strings.TrimSpace(get(domain.ColumnStreet)),
			Municipality: strings.TrimSpace(get(domain.ColumnMunicipality)),
			Province:     strings.TrimSpace(get(domain.ColumnProvince)),
			PostalCode:   get(domain.ColumnPostalCode),
			Phone:        get(domain.ColumnPhone),
		}
		f.Extra = extraColumns(header, row)
		table.Facilities = append(table.Facilities, f)
	}
	return table, nil
}

var required = func() map[string]bool {
	m := make(map[string]bool, len(domain.RequiredColumns))
	for _, c := range domain.RequiredColumns {
		m[c] = true
	}
	return m
}()

func extraColumns(header, row []string) map[string]string {
	var extra map[string]string
	for i, h := range header {
		if h == "" || required[h] {
			continue
		}
		if extra == nil {
			extra = make(map[string]string, len(header)-len(required))
		}
		if i < len(row) {
			extra[h] = row[i]
		} else {
			extra[h] = ""
		}
	}
	return extra
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
