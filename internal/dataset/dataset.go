// Package dataset loads the match-participation table from a CSV or XLSX
// export and normalises it into model.Record rows.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/pable/scrimstats/internal/model"
)

var (
	// ErrMissingColumn is matched by every *MissingColumnError.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnsupportedFormat is returned for file extensions that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported data file format")
	// ErrSheetNotFound is returned when the requested worksheet is not in the workbook.
	ErrSheetNotFound = errors.New("worksheet not found")
	// ErrEmpty is returned when the file has no header row.
	ErrEmpty = errors.New("data file is empty")
)

var (
	rowsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_dataset_rows_loaded_total",
		Help: "Total number of data rows loaded",
	})
	rowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_dataset_rows_skipped_total",
		Help: "Total number of data rows skipped as malformed",
	})
	loadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_dataset_load_failures_total",
		Help: "Total number of data file loads that failed",
	})
)

// MissingColumnError reports a required column absent from the header row.
type MissingColumnError struct {
	Column Column
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("'%s' 컬럼이 누락되었습니다. 데이터 파일 구조를 확인하세요.", e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// RowError describes a data row that was skipped.
type RowError struct {
	Row    int // sheet row number; the header is row 1
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Options controls how a data file is read.
type Options struct {
	// Variant forces the data variant; empty means detect from the header.
	Variant model.Variant
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string
}

// Dataset is one loaded data file.
type Dataset struct {
	Path    string
	Variant model.Variant
	Columns map[Column]bool
	Records []model.Record
	Skipped []RowError
}

// Has reports whether the column was present in the header.
func (d *Dataset) Has(c Column) bool {
	return d.Columns[c]
}

// Players returns every player name in row order, duplicates included.
func (d *Dataset) Players() []string {
	out := make([]string, len(d.Records))
	for i := range d.Records {
		out[i] = d.Records[i].Player
	}
	return out
}

// Load reads the data file at path, choosing the reader by extension.
func Load(path string, opts Options) (*Dataset, error) {
	ds, err := load(path, opts)
	if err != nil {
		loadFailures.Inc()
		return nil, err
	}
	ds.Path = path
	rowsLoaded.Add(float64(len(ds.Records)))
	rowsSkipped.Add(float64(len(ds.Skipped)))
	return ds, nil
}

func load(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(f, ',', opts)
	case ".tsv":
		return ReadCSV(f, '\t', opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV parses a delimited text table.
func ReadCSV(r io.Reader, comma rune, opts Options) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return FromRows(rows, opts)
}

// ReadXLSX parses one worksheet of an Excel workbook.
func ReadXLSX(r io.Reader, opts Options) (*Dataset, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	sheet := sheets[0]
	if opts.Sheet != "" {
		sheet = ""
		for _, name := range sheets {
			if name == opts.Sheet {
				sheet = name
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("%w: %q (have %s)", ErrSheetNotFound, opts.Sheet, strings.Join(sheets, ", "))
		}
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return FromRows(rows, opts)
}

// FromRows builds a Dataset from a header row followed by data rows.
func FromRows(rows [][]string, opts Options) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	index := make(map[Column]int)
	for i, h := range rows[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = cleanCell(h)
		if c, ok := canonicalColumn(h); ok {
			if _, dup := index[c]; !dup {
				index[c] = i
			}
		}
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, &MissingColumnError{Column: c}
		}
	}

	ds := &Dataset{Columns: make(map[Column]bool, len(index))}
	for c := range index {
		ds.Columns[c] = true
	}
	ds.Variant = opts.Variant
	if ds.Variant == "" {
		ds.Variant = model.VariantInternal
		if ds.Columns[ColFirstDeaths] {
			ds.Variant = model.VariantScrim
		}
	}

	for n, row := range rows[1:] {
		sheetRow := n + 2
		if blank(row) {
			continue
		}
		rec, err := parseRecord(row, index)
		if err != nil {
			ds.Skipped = append(ds.Skipped, RowError{Row: sheetRow, Reason: err.Error()})
			continue
		}
		rec.Row = sheetRow
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func parseRecord(row []string, index map[Column]int) (model.Record, error) {
	text := func(c Column) string {
		i, ok := index[c]
		if !ok || i >= len(row) {
			return ""
		}
		return cleanCell(row[i])
	}
	num := func(c Column) float64 {
		return parseNumber(text(c))
	}

	rawID := text(ColMatchID)
	id, err := parseMatchID(rawID)
	if err != nil {
		return model.Record{}, fmt.Errorf("invalid match id %q", rawID)
	}

	raw := text(ColOutcome)
	return model.Record{
		MatchID:     id,
		Date:        text(ColDate),
		Map:         text(ColMap),
		Player:      text(ColPlayer),
		Agent:       text(ColAgent),
		CombatScore: num(ColCombatScore),
		FirstKills:  num(ColFirstKills),
		FirstDeaths: num(ColFirstDeaths),
		Headshot:    num(ColHeadshot),
		Damage:      num(ColDamage),
		DamageDelta: num(ColDamageDelta),
		MultiKills:  num(ColMultiKills),
		Plants:      num(ColPlants),
		Defuses:     num(ColDefuses),
		Kills:       num(ColKills),
		Deaths:      num(ColDeaths),
		Assists:     num(ColAssists),
		Rounds:      num(ColRounds),
		Outcome:     model.ParseOutcome(raw),
		RawOutcome:  raw,
	}, nil
}

// cleanCell trims whitespace and composes Hangul that was exported decomposed.
func cleanCell(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts "12", "12.5", "1,234" and "23%". Anything else is missing.
func parseNumber(s string) float64 {
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Missing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Missing
	}
	return v
}

// parseMatchID accepts integers, including spreadsheet floats such as "12.0".
func parseMatchID(s string) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %s", s)
	}
	return int(f), nil
}
