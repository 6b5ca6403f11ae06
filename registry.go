package memtable

import (
	"fmt"
	"sync"
)

// EngineAggregatingMemory is the registered name of the in-memory
// aggregating table engine.
const EngineAggregatingMemory = "AggregatingMemory"

// SelectQuery is one top-level select statement, carried structurally. The
// text is stored verbatim; evaluating it is an external concern.
type SelectQuery struct {
	SQL string
}

// CreateQuery is the structural form of a CREATE TABLE statement as engine
// constructors need it: the list of top-level select statements of the
// defining query.
type CreateQuery struct {
	Selects []SelectQuery
}

// Arguments is everything an engine constructor receives.
type Arguments struct {
	// TableName is the name of the table being created.
	TableName string

	// EngineArgs are the positional engine arguments from the CREATE
	// statement. Engines that accept none must reject a non-empty list.
	EngineArgs []string

	// Query is the structural CREATE query.
	Query CreateQuery

	// Options are passed through to the table constructor.
	Options []Option
}

// Constructor builds a table for one engine. It must fail without side
// effects: a table is never partially created.
type Constructor func(args Arguments) (*Table, error)

// Features declares engine capabilities to callers of the registry.
type Features struct {
	// SupportsParallelInsert reports that independent writers may commit
	// concurrently.
	SupportsParallelInsert bool
}

type registryEntry struct {
	ctor     Constructor
	features Features
}

var (
	registryMu sync.RWMutex
	registry   = map[string]registryEntry{}
)

// RegisterEngine registers a storage engine constructor under a fixed name.
// Registration happens at process initialization; registering a duplicate
// name panics.
func RegisterEngine(name string, ctor Constructor, features Features) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("memtable: engine %q registered twice", name))
	}
	registry[name] = registryEntry{ctor: ctor, features: features}
}

// EngineFeatures returns the declared features of a registered engine.
func EngineFeatures(name string) (Features, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	e, ok := registry[name]
	return e.features, ok
}

// CreateTable constructs a table through the engine registry. Configuration
// errors (unknown engine, unexpected engine arguments, bad defining query)
// are reported before any state exists.
func CreateTable(engineName string, args Arguments) (*Table, error) {
	registryMu.RLock()
	e, ok := registry[engineName]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engineName)
	}
	t, err := e.ctor(args)
	if err != nil {
		return nil, err
	}
	t.engineName = engineName
	return t, nil
}

func init() {
	RegisterEngine(EngineAggregatingMemory, newAggregatingMemory, Features{
		SupportsParallelInsert: true,
	})
}

func newAggregatingMemory(args Arguments) (*Table, error) {
	if len(args.EngineArgs) > 0 {
		return nil, &ErrUnexpectedEngineArguments{
			Engine: EngineAggregatingMemory,
			Count:  len(args.EngineArgs),
		}
	}

	switch n := len(args.Query.Selects); {
	case n == 0:
		return nil, fmt.Errorf("%w for %s", ErrMissingSelectQuery, EngineAggregatingMemory)
	case n > 1:
		return nil, fmt.Errorf("%w for %s", ErrUnionNotSupported, EngineAggregatingMemory)
	}

	t := NewTable(args.TableName, args.Options...)
	t.query = args.Query.Selects[0]
	return t, nil
}
