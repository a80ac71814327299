package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/validation"
)

// MaxImportRows caps a single upload.
const MaxImportRows = 1000

// ImportRow is one spreadsheet line. Headers are matched case-insensitively.
type ImportRow struct {
	Name                string `csv:"name"`
	Category            string `csv:"category"`
	Quantity            string `csv:"quantity"`
	Unit                string `csv:"unit"`
	PurchaseDate        string `csv:"purchase_date"`
	ExpirationDate      string `csv:"expiration_date"`
	DaysUntilExpiration string `csv:"days_until_expiration"`
	TotalShelfLife      string `csv:"total_shelf_life"`

	// Line is the physical line in the source file, header being line 1.
	Line int `csv:"-"`
}

// RowError points at the offending line, counting the header as line 1.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// rowsReader feeds pre-split rows to gocsv.
type rowsReader struct {
	rows [][]string
	pos  int
}

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}

// decodeRows lower-cases the header, pads short lines, drops blank lines and
// maps the result onto ImportRow. lines[i] is the physical line of raw[i].
func decodeRows(raw [][]string, lines []int) ([]ImportRow, error) {
	if len(raw) == 0 {
		return nil, errors.New("file is empty")
	}
	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := [][]string{header}
	kept := make([]int, 0, len(raw)-1)
	for i, line := range raw[1:] {
		if isBlank(line) {
			continue
		}
		padded := make([]string, len(header))
		copy(padded, line)
		rows = append(rows, padded)
		kept = append(kept, lines[i+1])
	}
	if len(rows)-1 > MaxImportRows {
		return nil, fmt.Errorf("too many rows: %d, max %d", len(rows)-1, MaxImportRows)
	}

	var out []ImportRow
	if err := gocsv.UnmarshalCSV(&rowsReader{rows: rows}, &out); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	for i := range out {
		out[i].Line = kept[i]
	}
	return out, nil
}

func isBlank(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseCSV reads a comma separated file with a header line.
func ParseCSV(r io.Reader) ([]ImportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	// The reader skips empty lines, so positions come from FieldPos.
	var raw [][]string
	var lines []int
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		raw = append(raw, rec)
		lines = append(lines, line)
	}
	return decodeRows(raw, lines)
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	lines := make([]int, len(raw))
	for i := range lines {
		lines[i] = i + 1
	}
	return decodeRows(raw, lines)
}

// Parse picks the decoder from the file name extension.
func Parse(filename string, r io.Reader) ([]ImportRow, error) {
	switch ext := strings.ToLower(filename); {
	case strings.HasSuffix(ext, ".csv"):
		return ParseCSV(r)
	case strings.HasSuffix(ext, ".xlsx"):
		return ParseXLSX(r)
	default:
		return nil, errors.New("only .csv and .xlsx files are supported")
	}
}

func (row ImportRow) input() (ItemInput, error) {
	in := ItemInput{
		Name:           row.Name,
		Category:       row.Category,
		Unit:           row.Unit,
		PurchaseDate:   row.PurchaseDate,
		ExpirationDate: row.ExpirationDate,
	}
	if s := strings.TrimSpace(row.Quantity); s != "" {
		q, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return in, fmt.Errorf("quantity %q is not a number", s)
		}
		in.Quantity = q
	}
	if s := strings.TrimSpace(row.DaysUntilExpiration); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("days_until_expiration %q is not an integer", s)
		}
		in.DaysUntilExpiration = &d
	}
	if s := strings.TrimSpace(row.TotalShelfLife); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("total_shelf_life %q is not an integer", s)
		}
		in.TotalShelfLife = d
	}
	return in, nil
}

// BuildItems converts every row or reports all failing lines at once.
func BuildItems(rows []ImportRow, userID uint, now time.Time) ([]models.InventoryItem, error) {
	items := make([]models.InventoryItem, 0, len(rows))
	var errs []error
	for i, row := range rows {
		line := row.Line
		if line == 0 {
			line = i + 2
		}
		in, err := row.input()
		if err == nil {
			err = validation.Struct(&in)
		}
		if err != nil {
			errs = append(errs, &RowError{Line: line, Err: err})
			continue
		}
		item, err := NewItem(in, userID, now)
		if err != nil {
			errs = append(errs, &RowError{Line: line, Err: err})
			continue
		}
		items = append(items, item)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return items, nil
}
