package memtable

import (
	"fmt"

	"github.com/zhangyunhao116/skipmap"
)

// Catalog is a concurrent name-to-table registry. Lookups are lock-free;
// attach and detach are safe from any goroutine.
type Catalog struct {
	tables *skipmap.StringMap[*Table]
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: skipmap.NewString[*Table]()}
}

// Attach adds a table under its name.
func (c *Catalog) Attach(t *Table) error {
	if _, loaded := c.tables.LoadOrStore(t.Name(), t); loaded {
		return fmt.Errorf("%w: %q", ErrTableExists, t.Name())
	}
	return nil
}

// Get returns the named table.
func (c *Catalog) Get(name string) (*Table, error) {
	t, ok := c.tables.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return t, nil
}

// Detach removes and returns the named table. The caller decides whether to
// Drop it; scans already running against it are unaffected.
func (c *Catalog) Detach(name string) (*Table, error) {
	t, loaded := c.tables.LoadAndDelete(name)
	if !loaded {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return t, nil
}

// Range calls fn for each attached table until fn returns false.
func (c *Catalog) Range(fn func(t *Table) bool) {
	c.tables.Range(func(_ string, t *Table) bool {
		return fn(t)
	})
}

// Len returns the number of attached tables.
func (c *Catalog) Len() int {
	return c.tables.Len()
}
