// Package memtable provides an embedded in-memory columnar table storage
// engine for Go.
//
// Tables accumulate row data as append-only blocks, serve concurrent
// parallel scans over immutable snapshots, and support bulk column-level
// mutations, all without ever blocking readers.
//
// # Quick Start
//
//	t := memtable.NewTable("events")
//
//	// Write path: one appender per logical write operation.
//	a := t.NewAppender()
//	_ = a.Write(blk)
//	_ = a.Commit(ctx)
//
//	// Read path: parallel scan with column projection.
//	_ = t.Scan(ctx, memtable.ScanRequest{Columns: []string{"x", "point.y"}, Workers: 4},
//	    func(b *block.Block) error {
//	        // called concurrently from all scan workers
//	        return nil
//	    })
//
// # Concurrency Model
//
// Readers load the current snapshot through a single atomic pointer and are
// wait-free with respect to writers. Writer operations (append-commit,
// mutate, truncate) serialize on one commit lock per table and always
// publish a whole new snapshot: a scan that started before a commit keeps
// observing its original snapshot for its entire duration.
//
// # Engine Registry
//
// Storage engines register by name; tables can be created through the
// registry from a structural CREATE query:
//
//	t, err := memtable.CreateTable(memtable.EngineAggregatingMemory, memtable.Arguments{
//	    TableName: "events_agg",
//	    Query:     memtable.CreateQuery{Selects: []memtable.SelectQuery{{SQL: "SELECT ..."}}},
//	})
//
// The AggregatingMemory engine accepts no engine arguments and exactly one
// top-level select in its defining query; evaluating that query is an
// external concern.
package memtable
