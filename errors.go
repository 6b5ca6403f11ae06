package memtable

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEngine is returned when creating a table with an
	// unregistered engine name.
	ErrUnknownEngine = errors.New("unknown storage engine")

	// ErrMissingSelectQuery is returned when a defining query carries no
	// top-level select statement.
	ErrMissingSelectQuery = errors.New("SELECT query is not specified")

	// ErrUnionNotSupported is returned when a defining query carries more
	// than one top-level select statement.
	ErrUnionNotSupported = errors.New("UNION is not supported")

	// ErrTableExists is returned when attaching a table under a name the
	// catalog already holds.
	ErrTableExists = errors.New("table already exists")

	// ErrTableNotFound is returned when the catalog does not hold the
	// requested table.
	ErrTableNotFound = errors.New("table not found")
)

// ErrUnexpectedEngineArguments indicates positional engine arguments passed
// to an engine that accepts none.
type ErrUnexpectedEngineArguments struct {
	Engine string
	Count  int
}

func (e *ErrUnexpectedEngineArguments) Error() string {
	return fmt.Sprintf("engine %s doesn't support any arguments (%d given)", e.Engine, e.Count)
}
