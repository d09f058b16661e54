package engine

import "sort"

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns or mutates the record snapshot. It reads through
// this interface.
//
// Implementations:
//   SliceView — wraps []Record (the snapshot handed in by the caller)
//   SubView   — filtered subset (indices into parent, zero-copy)
//
// Every relaxation step of the filter engine re-filters the same parent
// view, so a fallback never copies the snapshot.
// ============================================================================

// RecordView provides indexed access to a record snapshot.
type RecordView interface {
	Len() int
	At(index int) Record
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
}

// NewSliceView creates a RecordView from a []Record slice.
func NewSliceView(records []Record) RecordView {
	return &SliceView{records: records}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) At(i int) Record {
	if i < 0 || i >= len(v.records) {
		return Record{}
	}
	return v.records[i]
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) At(i int) Record {
	if i < 0 || i >= len(v.indices) {
		return Record{}
	}
	return v.parent.At(v.indices[i])
}

// reorder returns a view over the same parent with a permuted index list.
func reorder(view RecordView, less func(a, b Record) bool) RecordView {
	indices := make([]int, view.Len())
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return less(view.At(indices[i]), view.At(indices[j]))
	})
	return newSubView(view, indices)
}
