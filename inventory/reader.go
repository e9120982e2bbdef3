package inventory

import (
	"fmt"

	"github.com/frictionlessdata/tableschema-go/csv"
	"github.com/frictionlessdata/tableschema-go/schema"
	"github.com/frictionlessdata/tableschema-go/table"
)

// HeaderError reports an inventory whose header row is not exactly Headers.
type HeaderError struct {
	Got []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("unexpected inventory headers: got %q, want %q", e.Got, Headers)
}

// rowSchema types every inventory column as a plain string.
var rowSchema = func() *schema.Schema {
	fields := make([]schema.Field, len(Headers))
	for i, h := range Headers {
		fields[i] = schema.Field{Name: h, Type: schema.StringType, Format: "default"}
	}
	return &schema.Schema{Fields: fields}
}()

// Reader iterates over the rows of an inventory export.
type Reader struct {
	iter table.Iterator
	row  Row
	line int
	err  error
}

// Open opens the inventory export at path.
func Open(path string) (*Reader, error) {
	return NewReader(csv.FromFile(path))
}

// NewReader reads an inventory export from src. It fails with a *HeaderError
// before any row is read if the header row differs from Headers.
func NewReader(src csv.Source) (*Reader, error) {
	tab, err := csv.NewTable(src, csv.LoadHeaders(), csv.ConsiderInitialSpace())
	if err != nil {
		return nil, fmt.Errorf("error reading inventory: %w", err)
	}
	if !validHeaders(tab.Headers()) {
		return nil, &HeaderError{Got: tab.Headers()}
	}
	iter, err := tab.Iter()
	if err != nil {
		return nil, fmt.Errorf("error reading inventory: %w", err)
	}
	return &Reader{iter: iter}, nil
}

func validHeaders(got []string) bool {
	if len(got) != len(Headers) {
		return false
	}
	for i := range got {
		if got[i] != Headers[i] {
			return false
		}
	}
	return true
}

// Next advances to the next row. It returns false at the end of the export or
// on the first error, which is then reported by Err.
func (r *Reader) Next() bool {
	if r.err != nil || !r.iter.Next() {
		return false
	}
	cells := r.iter.Row()
	// The iterator reports one empty row after the header of an export without rows.
	if len(cells) == 0 && r.iter.Err() == nil {
		return false
	}
	r.line++
	if len(cells) != len(Headers) {
		r.err = fmt.Errorf("error reading inventory row %d: got %d fields, want %d", r.line, len(cells), len(Headers))
		return false
	}
	var row Row
	if err := rowSchema.CastRow(cells, &row); err != nil {
		r.err = fmt.Errorf("error reading inventory row %d: %w", r.line, err)
		return false
	}
	r.row = row
	return true
}

// Row returns the current row.
func (r *Reader) Row() Row {
	return r.row
}

// Err returns the error, if any, that stopped the iteration.
func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	if err := r.iter.Err(); err != nil {
		return fmt.Errorf("error reading inventory: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.iter.Close()
}
