package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"memtable/block"
)

func TestCursor_ExactlyOnceCoverage(t *testing.T) {
	const batches = 16

	for workers := 1; workers <= batches; workers++ {
		cur := &Cursor{limit: batches}

		var mu sync.Mutex
		seen := make(map[int]int)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					i, ok := cur.Next()
					if !ok {
						return
					}
					mu.Lock()
					seen[i]++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if len(seen) != batches {
			t.Fatalf("workers=%d: claimed %d distinct indices, want %d", workers, len(seen), batches)
		}
		for i := 0; i < batches; i++ {
			if seen[i] != 1 {
				t.Fatalf("workers=%d: index %d claimed %d times, want once", workers, i, seen[i])
			}
		}
	}
}

func TestScanCoordinator_PlanClampsWorkers(t *testing.T) {
	e := New()
	commitBlocks(t, e, intsBlock(t, 1, 0), intsBlock(t, 1, 1))

	tests := []struct {
		requested int
		want      int
	}{
		{requested: 1, want: 1},
		{requested: 2, want: 2},
		{requested: 16, want: 2},
		{requested: 0, want: 1},
		{requested: -3, want: 1},
	}
	for _, tt := range tests {
		plan, err := e.PlanScan(nil, tt.requested)
		if err != nil {
			t.Fatalf("PlanScan(%d) failed: %v", tt.requested, err)
		}
		if plan.Workers() != tt.want {
			t.Fatalf("PlanScan(%d): workers=%d, want %d", tt.requested, plan.Workers(), tt.want)
		}
	}

	// Empty snapshot plans zero workers.
	empty := New()
	plan, err := empty.PlanScan(nil, 4)
	if err != nil {
		t.Fatalf("PlanScan on empty failed: %v", err)
	}
	if plan.Workers() != 0 {
		t.Fatalf("empty snapshot: workers=%d, want 0", plan.Workers())
	}
	if err := plan.Run(context.Background(), func(*block.Block) error {
		t.Error("emit called for empty snapshot")
		return nil
	}); err != nil {
		t.Fatalf("Run on empty plan failed: %v", err)
	}
}

func TestScanPlan_ProjectsRequestedColumns(t *testing.T) {
	e := New()
	commitBlocks(t, e, intsBlock(t, 3, 0))

	plan, err := e.PlanScan([]string{"y"}, 1)
	if err != nil {
		t.Fatalf("PlanScan failed: %v", err)
	}

	src := e.Snapshot().Block(0)
	out, err := plan.Project(src)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if out.NumColumns() != 1 || !out.Has("y") {
		t.Fatalf("projected columns = %v, want [y]", out.ColumnNames())
	}
	if out.Rows() != src.Rows() {
		t.Fatalf("projected rows = %d, want %d", out.Rows(), src.Rows())
	}

	// Projection shares column storage with the source block.
	srcCol, _ := src.ByName("y")
	outCol, _ := out.ByName("y")
	if srcCol != outCol {
		t.Fatal("projected column is not shared with the source")
	}
}

func TestScanPlan_ProjectSubcolumn(t *testing.T) {
	nested, err := block.NewNestedColumn(
		[]string{"x", "y"},
		map[string]block.Column{
			"x": block.NewInt64Column([]int64{1, 2}),
			"y": block.NewInt64Column([]int64{3, 4}),
		},
	)
	if err != nil {
		t.Fatalf("NewNestedColumn failed: %v", err)
	}
	b, err := block.New(
		[]string{"id", "point"},
		map[string]block.Column{
			"id":    block.NewInt64Column([]int64{10, 20}),
			"point": nested,
		},
	)
	if err != nil {
		t.Fatalf("block.New failed: %v", err)
	}

	e := New()
	commitBlocks(t, e, b)

	plan, err := e.PlanScan([]string{"id", "point.y"}, 1)
	if err != nil {
		t.Fatalf("PlanScan failed: %v", err)
	}
	out, err := plan.Project(b)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	col, err := out.ByName("point.y")
	if err != nil {
		t.Fatalf("projected block misses point.y: %v", err)
	}
	ints, ok := col.(*block.Int64Column)
	if !ok {
		t.Fatalf("point.y has kind %s, want int64", col.Kind())
	}
	if got := ints.Values(); got[0] != 3 || got[1] != 4 {
		t.Fatalf("point.y values = %v, want [3 4]", got)
	}
}

func TestScanPlan_UnknownColumn(t *testing.T) {
	e := New()
	commitBlocks(t, e, intsBlock(t, 1, 0))

	plan, err := e.PlanScan([]string{"missing"}, 1)
	if err != nil {
		t.Fatalf("PlanScan failed: %v", err)
	}
	err = plan.Run(context.Background(), func(*block.Block) error { return nil })

	var notFound *block.ErrColumnNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("Run = %v, want ErrColumnNotFound", err)
	}
}

func TestScanPlan_RunCoversAllBlocksOnce(t *testing.T) {
	e := New()
	blocks := []*block.Block{
		intsBlock(t, 3, 0),
		intsBlock(t, 0, 0), // zero-row blocks are still emitted
		intsBlock(t, 2, 10),
		intsBlock(t, 5, 20),
	}
	commitBlocks(t, e, blocks...)

	plan, err := e.PlanScan([]string{"x"}, 3)
	if err != nil {
		t.Fatalf("PlanScan failed: %v", err)
	}

	var mu sync.Mutex
	var emitted []*block.Block
	err = plan.Run(context.Background(), func(b *block.Block) error {
		mu.Lock()
		emitted = append(emitted, b)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(emitted) != len(blocks) {
		t.Fatalf("emitted %d blocks, want %d", len(emitted), len(blocks))
	}
	var rows int
	sawEmpty := false
	for _, b := range emitted {
		rows += b.Rows()
		if b.Rows() == 0 {
			sawEmpty = true
			if !b.Has("x") {
				t.Fatal("zero-row chunk lost its schema")
			}
		}
	}
	if rows != 10 {
		t.Fatalf("emitted %d rows, want 10", rows)
	}
	if !sawEmpty {
		t.Fatal("zero-row block was not emitted")
	}
}

func TestScanPlan_EmitErrorStopsScan(t *testing.T) {
	e := New()
	commitBlocks(t, e, intsBlock(t, 1, 0), intsBlock(t, 1, 1), intsBlock(t, 1, 2))

	sentinel := errors.New("stop")
	plan, err := e.PlanScan(nil, 2)
	if err != nil {
		t.Fatalf("PlanScan failed: %v", err)
	}
	err = plan.Run(context.Background(), func(*block.Block) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("Run = %v, want sentinel", err)
	}
}
