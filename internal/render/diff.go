package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/colonyops/redline/internal/core/doctext"
	"github.com/colonyops/redline/internal/core/projection"
	"github.com/colonyops/redline/internal/core/textrange"
)

const noNewline = "\\ No newline at end of file\n"

// lineIndex locates the lines of a text. A trailing newline ends the last
// line; it does not start an empty one.
type lineIndex struct {
	text   doctext.Text
	starts []int
	n      int
	noEOL  bool
}

func indexLines(t doctext.Text) lineIndex {
	starts := make([]int, 1, t.Count('\n', 0, t.Len())+1)
	for i := t.IndexUnit('\n', 0); i >= 0; i = t.IndexUnit('\n', i+1) {
		starts = append(starts, i+1)
	}

	li := lineIndex{text: t, starts: starts, n: len(starts)}
	if starts[len(starts)-1] == t.Len() {
		li.n--
	} else {
		li.noEOL = true
	}
	return li
}

// lineAt returns the line holding offset pos. pos == Len() after a trailing
// newline yields n, one past the last line.
func (li lineIndex) lineAt(pos int) int {
	return sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > pos }) - 1
}

func (li lineIndex) line(i int) string {
	end := li.text.Len()
	if i+1 < len(li.starts) {
		end = li.starts[i+1] - 1
	}
	return li.text.Slice(li.starts[i], end)
}

// lineBlock is the run of lines from the one holding a range's start to the
// one holding its end offset. A range ending on a newline includes the
// following line.
type lineBlock struct {
	first, last int
}

func blockOf(li lineIndex, r textrange.Range) lineBlock {
	return lineBlock{first: li.lineAt(r.Start), last: li.lineAt(r.End)}
}

// count is the number of existing lines in the block.
func (b lineBlock) count(li lineIndex) int {
	return max(min(b.last, li.n-1)-b.first+1, 0)
}

// startLine is the hunk header start: one-based, or the line after which
// text is inserted when the block is empty.
func (b lineBlock) startLine(li lineIndex) int32 {
	if b.count(li) == 0 {
		return int32(b.first)
	}
	return int32(b.first + 1)
}

func (b lineBlock) write(sb *strings.Builder, li lineIndex, prefix byte) {
	for i := b.first; i < b.first+b.count(li); i++ {
		sb.WriteByte(prefix)
		sb.WriteString(li.line(i))
		sb.WriteByte('\n')
		if i == li.n-1 && li.noEOL {
			sb.WriteString(noNewline)
		}
	}
}

type hunkBlock struct {
	orig, out lineBlock
}

// FileDiff builds a unified diff between base and edited from the replace
// segments of a projection. Every hunk covers the whole lines touched by one
// or more replacements, with no context lines. Replacements that share a
// base line are merged into one hunk.
func FileDiff(base, edited doctext.Text, segments []projection.Segment, origName, newName string) *diff.FileDiff {
	bl, el := indexLines(base), indexLines(edited)

	var blocks []hunkBlock
	for _, seg := range segments {
		if seg.Kind != projection.KindReplace {
			continue
		}

		hb := hunkBlock{orig: blockOf(bl, seg.Base), out: blockOf(el, seg.Out)}
		if n := len(blocks); n > 0 && hb.orig.first <= blocks[n-1].orig.last {
			blocks[n-1].orig.last = hb.orig.last
			blocks[n-1].out.last = hb.out.last
			continue
		}
		blocks = append(blocks, hb)
	}

	fd := &diff.FileDiff{OrigName: origName, NewName: newName}
	for _, b := range blocks {
		origLines, newLines := b.orig.count(bl), b.out.count(el)
		if origLines == 0 && newLines == 0 {
			continue
		}

		var body strings.Builder
		b.orig.write(&body, bl, '-')
		b.out.write(&body, el, '+')

		fd.Hunks = append(fd.Hunks, &diff.Hunk{
			OrigStartLine: b.orig.startLine(bl),
			OrigLines:     int32(origLines),
			NewStartLine:  b.out.startLine(el),
			NewLines:      int32(newLines),
			Body:          []byte(body.String()),
		})
	}
	return fd
}

// UnifiedDiff prints the diff built by FileDiff. The result is empty when
// no replacement was applied.
func UnifiedDiff(base, edited doctext.Text, segments []projection.Segment, origName, newName string) ([]byte, error) {
	fd := FileDiff(base, edited, segments, origName, newName)
	if len(fd.Hunks) == 0 {
		return nil, nil
	}

	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return nil, fmt.Errorf("print diff: %w", err)
	}
	return out, nil
}
