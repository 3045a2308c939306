package highlight

import (
	"github.com/colonyops/redline/internal/core/doctext"
	"github.com/colonyops/redline/internal/core/textrange"
)

// ManualEditID is the highlight id given to the changed region of a
// free-form edit.
const ManualEditID = "edit-manual"

// ChangedRange locates the single region of edited that differs from base
// by trimming their common prefix and suffix. The range is expressed in
// edited-text coordinates. ok is false when nothing changed or the edit was
// a pure deletion.
//
// Only one contiguous change is assumed: several disjoint edits come back as
// one range spanning all of them.
func ChangedRange(base, edited doctext.Text) (r textrange.Range, ok bool) {
	p := doctext.CommonPrefix(base, edited)
	s := doctext.CommonSuffix(base, edited, min(base.Len(), edited.Len())-p)

	end := edited.Len() - s
	if p >= end {
		return textrange.Range{}, false
	}
	return textrange.New(p, end), true
}

// ComposeManual renders edited text that has no segment map, marking the
// changed region as an edit.
func ComposeManual(base, edited doctext.Text) []Span {
	r, ok := ChangedRange(base, edited)
	if !ok {
		return Plain(edited)
	}
	return Compose(edited, []Highlight{{Range: r, Type: TypeEdit, ID: ManualEditID}})
}
