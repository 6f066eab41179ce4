package transaction

import (
	"sort"
	"unicode/utf8"

	"github.com/wisp-editor/wisp/internal/engine/changeset"
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
)

// Change is one explicit edit: replace [Start, End) with Replacement (which
// may be empty for a pure delete, or equal-width for a pure insert when
// Start == End).
type Change struct {
	Start       selection.CharIdx
	End         selection.CharIdx
	Replacement string
}

// Transaction is a built ChangeSet plus the ability to re-map a Selection
// through it.
type Transaction struct {
	cs   *changeset.ChangeSet
	bias changeset.Bias
}

// ChangeSet returns the underlying changeset.
func (t *Transaction) ChangeSet() *changeset.ChangeSet { return t.cs }

// Apply applies the transaction's changeset to doc.
func (t *Transaction) Apply(doc rope.Rope) rope.Rope {
	return t.cs.Apply(doc)
}

// MapSelection re-maps every range of sel through the transaction's
// changeset, using the bias appropriate to the edit that built this
// Transaction: Insert transactions use BiasRight so a selection that
// triggered the insertion advances past the inserted text (the normal
// "typing moves the cursor forward" behavior); Delete and Change
// transactions use BiasLeft, though bias is moot there since Delete
// operations clamp interior positions to the deletion's start regardless
// of bias.
func (t *Transaction) MapSelection(sel selection.Selection) selection.Selection {
	ranges := sel.Ranges()
	mapped := make([]selection.Range, len(ranges))
	for i, r := range ranges {
		mapped[i] = selection.Range{
			Anchor: selection.CharIdx(t.cs.MapPos(int(r.Anchor), t.bias)),
			Head:   selection.CharIdx(t.cs.MapPos(int(r.Head), t.bias)),
		}
	}
	return selection.FromVec(mapped, sel.PrimaryIndex())
}

// Insert builds a transaction that inserts text at the start (Min()) of
// every range in sel. srcLen is the character length of the source
// document the transaction applies to.
func Insert(srcLen int, sel selection.Selection, text string) *Transaction {
	points := make([]selection.CharIdx, 0, sel.Len())
	for _, r := range sel.Ranges() {
		points = append(points, r.Min())
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	cs := changeset.New()
	pos := 0
	for _, p := range points {
		cs.Retain(int(p) - pos)
		cs.Insert(text)
		pos = int(p)
	}
	cs.Retain(srcLen - pos)
	return &Transaction{cs: cs, bias: changeset.BiasRight}
}

// Delete builds a transaction that deletes every non-empty range in sel.
// Overlapping/adjacent ranges must already be resolved by the selection's
// own normalization; Delete relies on ranges being in ascending,
// non-overlapping order (guaranteed by selection.Selection.Normalize) and
// does not check it.
func Delete(srcLen int, sel selection.Selection) *Transaction {
	cs := changeset.New()
	pos := 0
	for _, r := range sel.Ranges() {
		if r.IsEmpty() {
			continue
		}
		cs.Retain(int(r.Min()) - pos)
		cs.Delete(r.Len())
		pos = int(r.Max())
	}
	cs.Retain(srcLen - pos)
	return &Transaction{cs: cs, bias: changeset.BiasLeft}
}

// Changes builds a transaction from an explicit list of edits. changes must
// be given in ascending, non-overlapping order (the caller — typically a
// command handler — is responsible for sorting and validating overlaps
// before calling Changes; this mirrors the source's documented precondition
// rather than silently re-sorting user input).
func Changes(srcLen int, changes []Change) *Transaction {
	cs := changeset.New()
	pos := 0
	for _, c := range changes {
		if int(c.Start) < pos {
			panic("transaction: changes must be given in ascending, non-overlapping order")
		}
		cs.Retain(int(c.Start) - pos)
		if c.End > c.Start {
			cs.Delete(int(c.End - c.Start))
		}
		if c.Replacement != "" {
			cs.Insert(c.Replacement)
		}
		pos = int(c.End)
	}
	cs.Retain(srcLen - pos)
	return &Transaction{cs: cs, bias: changeset.BiasLeft}
}

// Compose folds b onto a, producing a single transaction equivalent to
// applying a then b in sequence. The result's bias is b's, since b
// represents the more recent edit intent (used to fold coalesced Insert-mode
// keystrokes into one undo-stack entry while still letting Redo replay the
// whole run in a single Apply).
func Compose(a, b *Transaction) *Transaction {
	return &Transaction{cs: changeset.Compose(a.cs, b.cs), bias: b.bias}
}

// InsertPositions returns the resulting cursor/anchor CharIdx for an
// insertion of text at CharIdx p against a document, useful for callers
// that want the post-insert head position directly rather than mapping a
// whole selection (e.g. collapsing to the end of the inserted text).
func InsertPositions(p selection.CharIdx, text string) selection.CharIdx {
	return p + selection.CharIdx(utf8.RuneCountInString(text))
}
