package block

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// NestedColumn is a column of named sub-columns sharing one row count.
//
// It backs dotted column names: a request for "point.x" resolves the parent
// column "point" and extracts its "x" field without copying sibling fields.
type NestedColumn struct {
	names  []string
	fields map[string]Column
	rows   int
}

// NewNestedColumn creates a nested column from named fields, in the given
// order. All fields must share one row count.
func NewNestedColumn(names []string, fields map[string]Column) (*NestedColumn, error) {
	if len(names) != len(fields) {
		return nil, fmt.Errorf("block: nested column has %d names but %d fields", len(names), len(fields))
	}
	rows := -1
	for _, name := range names {
		f, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("block: nested column missing field %q", name)
		}
		if rows == -1 {
			rows = f.Len()
		} else if f.Len() != rows {
			return nil, fmt.Errorf("block: nested field %q has %d rows, want %d", name, f.Len(), rows)
		}
	}
	if rows == -1 {
		rows = 0
	}
	return &NestedColumn{names: names, fields: fields, rows: rows}, nil
}

// Kind implements Column.
func (c *NestedColumn) Kind() Kind { return KindNested }

// Len implements Column.
func (c *NestedColumn) Len() int { return c.rows }

// SizeBytes implements Column.
func (c *NestedColumn) SizeBytes() uint64 {
	var total uint64
	for _, name := range c.names {
		total += c.fields[name].SizeBytes()
	}
	return total
}

// FieldNames returns the field names in declaration order.
func (c *NestedColumn) FieldNames() []string { return c.names }

// Field returns the named sub-column. The returned column shares storage
// with the parent.
func (c *NestedColumn) Field(name string) (Column, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// AppendHash implements Column.
func (c *NestedColumn) AppendHash(d *xxhash.Digest) {
	var buf [8]byte
	for _, name := range c.names {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(name)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(name)
		c.fields[name].AppendHash(d)
	}
}
