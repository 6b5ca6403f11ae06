package block

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Kind identifies the concrete type stored in a Column.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindInt64 represents a column of signed 64-bit integers.
	KindInt64
	// KindFloat64 represents a column of 64-bit floats.
	KindFloat64
	// KindString represents a column of strings.
	KindString
	// KindBool represents a column of booleans.
	KindBool
	// KindNested represents a column of named sub-columns.
	KindNested
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNested:
		return "nested"
	default:
		return "invalid"
	}
}

// Column is a typed, immutable-once-published sequence of values.
//
// The engine never constructs column storage itself; it only reads and
// reassembles existing columns. Implementations must be safe for concurrent
// reads after publication.
type Column interface {
	// Kind returns the concrete value type of the column.
	Kind() Kind

	// Len returns the number of rows in the column.
	Len() int

	// SizeBytes returns an estimate of the memory held by the column's
	// values. It is used for table totals and memory accounting, not for
	// exact allocation tracking.
	SizeBytes() uint64

	// AppendHash feeds the column's content into d. Two columns with equal
	// content produce equal digests for the same kind.
	AppendHash(d *xxhash.Digest)
}

// Int64Column is a column of signed 64-bit integers.
type Int64Column struct {
	values []int64
}

// NewInt64Column creates an int64 column over values. The slice is owned by
// the column after the call.
func NewInt64Column(values []int64) *Int64Column {
	return &Int64Column{values: values}
}

// Kind implements Column.
func (c *Int64Column) Kind() Kind { return KindInt64 }

// Len implements Column.
func (c *Int64Column) Len() int { return len(c.values) }

// SizeBytes implements Column.
func (c *Int64Column) SizeBytes() uint64 { return uint64(len(c.values)) * 8 }

// Values returns the underlying values. Do not modify after publication.
func (c *Int64Column) Values() []int64 { return c.values }

// AppendHash implements Column.
func (c *Int64Column) AppendHash(d *xxhash.Digest) {
	var buf [8]byte
	for _, v := range c.values {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
}

// Float64Column is a column of 64-bit floats.
type Float64Column struct {
	values []float64
}

// NewFloat64Column creates a float64 column over values.
func NewFloat64Column(values []float64) *Float64Column {
	return &Float64Column{values: values}
}

// Kind implements Column.
func (c *Float64Column) Kind() Kind { return KindFloat64 }

// Len implements Column.
func (c *Float64Column) Len() int { return len(c.values) }

// SizeBytes implements Column.
func (c *Float64Column) SizeBytes() uint64 { return uint64(len(c.values)) * 8 }

// Values returns the underlying values. Do not modify after publication.
func (c *Float64Column) Values() []float64 { return c.values }

// AppendHash implements Column.
func (c *Float64Column) AppendHash(d *xxhash.Digest) {
	var buf [8]byte
	for _, v := range c.values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
}

// StringColumn is a column of strings.
type StringColumn struct {
	values []string
	bytes  uint64
}

// NewStringColumn creates a string column over values.
func NewStringColumn(values []string) *StringColumn {
	var bytes uint64
	for _, s := range values {
		bytes += uint64(len(s)) + 16 // string header
	}
	return &StringColumn{values: values, bytes: bytes}
}

// Kind implements Column.
func (c *StringColumn) Kind() Kind { return KindString }

// Len implements Column.
func (c *StringColumn) Len() int { return len(c.values) }

// SizeBytes implements Column.
func (c *StringColumn) SizeBytes() uint64 { return c.bytes }

// Values returns the underlying values. Do not modify after publication.
func (c *StringColumn) Values() []string { return c.values }

// AppendHash implements Column.
func (c *StringColumn) AppendHash(d *xxhash.Digest) {
	var buf [8]byte
	for _, s := range c.values {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(s)
	}
}

// BoolColumn is a column of booleans.
type BoolColumn struct {
	values []bool
}

// NewBoolColumn creates a bool column over values.
func NewBoolColumn(values []bool) *BoolColumn {
	return &BoolColumn{values: values}
}

// Kind implements Column.
func (c *BoolColumn) Kind() Kind { return KindBool }

// Len implements Column.
func (c *BoolColumn) Len() int { return len(c.values) }

// SizeBytes implements Column.
func (c *BoolColumn) SizeBytes() uint64 { return uint64(len(c.values)) }

// Values returns the underlying values. Do not modify after publication.
func (c *BoolColumn) Values() []bool { return c.values }

// AppendHash implements Column.
func (c *BoolColumn) AppendHash(d *xxhash.Digest) {
	for _, v := range c.values {
		if v {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	}
}
