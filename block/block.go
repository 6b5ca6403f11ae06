// Package block provides the columnar data model for memtable: typed column
// values and the Block, a vertical slice of table rows mapping column names
// to columns with one shared row count.
//
// Blocks are immutable once handed to the engine. All change goes through
// copy-on-write helpers such as WithColumns, which share untouched column
// storage with the source block.
package block

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrColumnNotFound indicates a lookup for a column name the block does not
// contain.
type ErrColumnNotFound struct {
	Column string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// ErrRowCountMismatch indicates a column whose row count disagrees with the
// block's established row count.
type ErrRowCountMismatch struct {
	Column string
	Got    int
	Want   int
}

func (e *ErrRowCountMismatch) Error() string {
	return fmt.Sprintf("column %q has %d rows, want %d", e.Column, e.Got, e.Want)
}

// Block is an ordered mapping from column name to column values, all columns
// sharing one row count.
//
// A Block inside a published snapshot is never mutated in place; concurrent
// reads are safe.
type Block struct {
	names   []string
	columns map[string]Column
	rows    int
}

// New creates a block from named columns in the given order. All columns
// must share one row count.
func New(names []string, columns map[string]Column) (*Block, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("block: %d names but %d columns", len(names), len(columns))
	}
	rows := -1
	for _, name := range names {
		col, ok := columns[name]
		if !ok {
			return nil, &ErrColumnNotFound{Column: name}
		}
		if rows == -1 {
			rows = col.Len()
		} else if col.Len() != rows {
			return nil, &ErrRowCountMismatch{Column: name, Got: col.Len(), Want: rows}
		}
	}
	if rows == -1 {
		rows = 0
	}
	return &Block{names: names, columns: columns, rows: rows}, nil
}

// MustNew is New that panics on error. Intended for tests and static block
// construction.
func MustNew(names []string, columns map[string]Column) *Block {
	b, err := New(names, columns)
	if err != nil {
		panic(err)
	}
	return b
}

// Rows returns the block's row count.
func (b *Block) Rows() int { return b.rows }

// NumColumns returns the number of columns.
func (b *Block) NumColumns() int { return len(b.names) }

// ColumnNames returns the column names in block order. The returned slice
// must not be modified.
func (b *Block) ColumnNames() []string { return b.names }

// Has reports whether the block contains the named column. Dotted names are
// not resolved here; see Resolve.
func (b *Block) Has(name string) bool {
	_, ok := b.columns[name]
	return ok
}

// ByName returns the named column.
func (b *Block) ByName(name string) (Column, error) {
	col, ok := b.columns[name]
	if !ok {
		return nil, &ErrColumnNotFound{Column: name}
	}
	return col, nil
}

// SplitQualified splits a possibly dotted column name into the name in
// storage and the subcolumn path ("point.x" -> "point", "x"). The subcolumn
// part is empty for plain names.
func SplitQualified(name string) (parent, sub string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// Resolve returns the column for a possibly dotted name. A dotted name
// resolves the parent column and extracts the named sub-value from it,
// sharing storage with the parent; unrelated columns are not touched.
func (b *Block) Resolve(name string) (Column, error) {
	parent, sub := SplitQualified(name)
	col, ok := b.columns[parent]
	if !ok {
		return nil, &ErrColumnNotFound{Column: parent}
	}
	if sub == "" {
		return col, nil
	}
	return extractSubcolumn(col, parent, sub)
}

// Subcolumn extracts the sub-value at path from col, where parent is the
// column's name in storage (used for error reporting). Extraction shares
// storage with the parent column; sibling fields are not copied.
func Subcolumn(col Column, parent, path string) (Column, error) {
	return extractSubcolumn(col, parent, path)
}

func extractSubcolumn(col Column, parent, sub string) (Column, error) {
	nested, ok := col.(*NestedColumn)
	if !ok {
		return nil, fmt.Errorf("column %q of kind %s has no subcolumns", parent, col.Kind())
	}
	head, rest := SplitQualified(sub)
	field, ok := nested.Field(head)
	if !ok {
		return nil, &ErrColumnNotFound{Column: parent + "." + head}
	}
	if rest == "" {
		return field, nil
	}
	return extractSubcolumn(field, parent+"."+head, rest)
}

// WithColumns returns a new block where the given columns replace the ones
// with the same names; all other columns are shared with the receiver. Every
// replacement column must match the block's row count, and every name must
// already exist in the block.
func (b *Block) WithColumns(replacements map[string]Column) (*Block, error) {
	columns := make(map[string]Column, len(b.names))
	for name, col := range b.columns {
		columns[name] = col
	}
	for name, col := range replacements {
		if _, ok := columns[name]; !ok {
			return nil, &ErrColumnNotFound{Column: name}
		}
		if col.Len() != b.rows {
			return nil, &ErrRowCountMismatch{Column: name, Got: col.Len(), Want: b.rows}
		}
		columns[name] = col
	}
	return &Block{names: b.names, columns: columns, rows: b.rows}, nil
}

// SizeBytes returns the estimated memory held by the block's columns.
func (b *Block) SizeBytes() uint64 {
	var total uint64
	for _, name := range b.names {
		total += b.columns[name].SizeBytes()
	}
	return total
}

// Fingerprint returns a content hash over the block's column names and
// values. Blocks with equal schema and content produce equal fingerprints.
func (b *Block) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [1]byte
	for _, name := range b.names {
		_, _ = d.WriteString(name)
		buf[0] = byte(b.columns[name].Kind())
		_, _ = d.Write(buf[:])
		b.columns[name].AppendHash(d)
	}
	return d.Sum64()
}

// ColumnFingerprint returns a content hash of a single resolved column.
func (b *Block) ColumnFingerprint(name string) (uint64, error) {
	col, err := b.Resolve(name)
	if err != nil {
		return 0, err
	}
	d := xxhash.New()
	col.AppendHash(d)
	return d.Sum64(), nil
}
