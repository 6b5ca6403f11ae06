package engine

import (
	"context"
	"fmt"
	"slices"

	"memtable/block"
)

// MutationMode selects how transform output is folded back into the table.
type MutationMode uint8

const (
	// ModeFullReplace replaces every input block wholesale with the
	// corresponding output block.
	ModeFullReplace MutationMode = iota + 1

	// ModeColumnPatch takes only the affected columns from each output
	// block and retains every other column unchanged from the input block.
	ModeColumnPatch
)

// String returns the mode name.
func (m MutationMode) String() string {
	switch m {
	case ModeFullReplace:
		return "full-replace"
	case ModeColumnPatch:
		return "column-patch"
	default:
		return "invalid"
	}
}

// Transform rewrites a block sequence. It is supplied by the
// query-execution collaborator and treated as an opaque, possibly-failing
// black box; the only contract the engine enforces is exactly one output
// block per input block, in input order.
type Transform func(blocks []*block.Block) ([]*block.Block, error)

// Mutation is a bulk rewrite of the table's content.
type Mutation struct {
	// Transform produces one output block per input block.
	Transform Transform

	// Mode selects full-replace or column-patch folding.
	Mode MutationMode

	// AffectedColumns names the columns to take from the transform output
	// in ModeColumnPatch. Empty means every column present in the output
	// blocks. Ignored in ModeFullReplace.
	AffectedColumns []string
}

// Mutate applies m under the commit lock and publishes the rebuilt
// snapshot.
//
// Totals are recomputed by summing the entire new block sequence, not
// incrementally. On any error nothing is published: the previously published
// snapshot remains the visible state.
func (e *Engine) Mutate(ctx context.Context, m Mutation) error {
	if m.Transform == nil {
		return ErrNilTransform
	}
	switch m.Mode {
	case ModeFullReplace, ModeColumnPatch:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMutationMode, m.Mode)
	}

	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	old := e.store.Get()

	out, err := m.Transform(slices.Clone(old.Blocks()))
	if err != nil {
		return fmt.Errorf("mutation transform: %w", err)
	}
	if len(out) != old.NumBlocks() {
		return &ErrBatchCountMismatch{Got: len(out), Want: old.NumBlocks()}
	}

	var blocks []*block.Block
	switch m.Mode {
	case ModeFullReplace:
		blocks = out
	case ModeColumnPatch:
		blocks = make([]*block.Block, old.NumBlocks())
		for i, in := range old.Blocks() {
			patched, err := patchBlock(in, out[i], m.AffectedColumns)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			blocks[i] = patched
		}
	}

	snap := NewSnapshot(blocks)

	if e.rc != nil {
		if err := e.adjustMemory(ctx, old.Bytes(), snap.Bytes()); err != nil {
			return err
		}
	}

	e.totals.OnReplace(snap.Rows(), snap.Bytes())
	e.store.Publish(snap)

	return nil
}

// patchBlock combines an input block with the affected columns of its
// transform output. Retained columns are shared from the input; every
// patched column must match the input block's row count.
func patchBlock(in, out *block.Block, affected []string) (*block.Block, error) {
	names := affected
	if len(names) == 0 {
		names = out.ColumnNames()
	}
	replacements := make(map[string]block.Column, len(names))
	for _, name := range names {
		col, err := out.ByName(name)
		if err != nil {
			return nil, err
		}
		replacements[name] = col
	}
	// WithColumns enforces that each patched column exists in the input and
	// matches its row count; a mismatch surfaces as *block.ErrRowCountMismatch.
	return in.WithColumns(replacements)
}

func (e *Engine) adjustMemory(ctx context.Context, oldBytes, newBytes uint64) error {
	switch {
	case newBytes > oldBytes:
		return e.rc.AcquireMemory(ctx, int64(newBytes-oldBytes))
	case newBytes < oldBytes:
		e.rc.ReleaseMemory(int64(oldBytes - newBytes))
	}
	return nil
}
