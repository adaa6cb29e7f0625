package reconcile

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// KindPlan is the change set for one child kind.
type KindPlan struct {
	Kind   domain.ChildKind
	Create []domain.ChildRow
	Update []domain.ChildRow
	Delete []domain.ChildRow

	// Adopted lists desired ids that matched no current row. Those rows are
	// created with fresh ids.
	Adopted []uuid.UUID
}

// IsEmpty reports whether the plan changes nothing.
func (p KindPlan) IsEmpty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// DeleteIDs returns the ids of the rows to delete.
func (p KindPlan) DeleteIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Delete))
	for _, r := range p.Delete {
		ids = append(ids, r.ID)
	}
	return ids
}

// Rows diffs the current rows of one kind against the desired rows.
//
// A nil desired slice leaves the kind untouched. Rows with an id matching a
// current row are edits, emitted only when their content changed; a changed
// language becomes a delete plus a create. Rows without a known id are
// creates. Under ModeReplaceAll, current rows absent from desired are deleted.
func Rows(kind domain.ChildKind, mode Mode, current, desired []domain.ChildRow) KindPlan {
	plan := KindPlan{Kind: kind}
	if desired == nil {
		return plan
	}

	desired = prepare(kind, desired)

	currentByID := make(map[uuid.UUID]domain.ChildRow, len(current))
	for _, r := range current {
		currentByID[r.ID] = r
	}

	referenced := make(map[uuid.UUID]bool, len(desired))
	for _, d := range desired {
		if _, ok := currentByID[d.ID]; ok && d.HasID() {
			referenced[d.ID] = true
		}
	}

	// Under ModePatch nothing is deleted by omission, so single-valued kinds
	// reuse the unreferenced current row of the same language instead of
	// creating a second primary. ModeReplaceAll deletes it and creates anew.
	var primaries map[domain.Language]domain.ChildRow
	if kind.IsSingleValued() && mode == ModePatch {
		primaries = make(map[domain.Language]domain.ChildRow)
		for _, r := range current {
			if !referenced[r.ID] {
				primaries[r.Lang] = r
			}
		}
	}

	var nextPos map[domain.Language]int
	if mode == ModePatch {
		nextPos = nextPositions(current)
	}

	seen := make(map[uuid.UUID]bool, len(desired))
	for _, d := range desired {
		d.Kind = kind

		cur, known := currentByID[d.ID]
		if d.HasID() && !known {
			plan.Adopted = append(plan.Adopted, d.ID)
			d.ID = uuid.Nil
		}

		if !known || !d.HasID() {
			if p, ok := primaries[d.Lang]; ok {
				delete(primaries, d.Lang)
				cur, known = p, true
				d.ID = p.ID
			}
		}

		if !known {
			if mode == ModePatch && !kind.IsSingleValued() {
				d.Position = nextPos[d.Lang]
				nextPos[d.Lang]++
			}
			plan.Create = append(plan.Create, d)
			continue
		}

		seen[cur.ID] = true
		d.EntryID = cur.EntryID

		if cur.Lang != d.Lang {
			plan.Delete = append(plan.Delete, cur)
			if p, ok := primaries[d.Lang]; ok {
				delete(primaries, d.Lang)
				seen[p.ID] = true
				d.ID = p.ID
				if !p.SameContent(d) {
					plan.Update = append(plan.Update, d)
				}
				continue
			}
			d.ID = uuid.Nil
			if mode == ModePatch && !kind.IsSingleValued() {
				d.Position = nextPos[d.Lang]
				nextPos[d.Lang]++
			}
			plan.Create = append(plan.Create, d)
			continue
		}

		if mode == ModePatch {
			d.Position = cur.Position
		}
		if !cur.SameContent(d) {
			plan.Update = append(plan.Update, d)
		}
	}

	if mode == ModeReplaceAll {
		for _, r := range current {
			if !seen[r.ID] {
				plan.Delete = append(plan.Delete, r)
			}
		}
	}

	return plan
}

// prepare applies submission-order rules: for a repeated id the last
// occurrence wins, single-valued kinds keep the last row per language, and
// positions count up from zero within each language.
func prepare(kind domain.ChildKind, desired []domain.ChildRow) []domain.ChildRow {
	lastByID := make(map[uuid.UUID]int, len(desired))
	for i, d := range desired {
		if d.HasID() {
			lastByID[d.ID] = i
		}
	}

	lastByLang := make(map[domain.Language]int)
	if kind.IsSingleValued() {
		for i, d := range desired {
			if d.HasID() && lastByID[d.ID] != i {
				continue
			}
			lastByLang[d.Lang] = i
		}
	}

	out := make([]domain.ChildRow, 0, len(desired))
	positions := make(map[domain.Language]int)
	for i, d := range desired {
		if d.HasID() && lastByID[d.ID] != i {
			continue
		}
		if kind.IsSingleValued() && lastByLang[d.Lang] != i {
			continue
		}
		d.Position = positions[d.Lang]
		positions[d.Lang]++
		out = append(out, d)
	}
	return out
}

func nextPositions(rows []domain.ChildRow) map[domain.Language]int {
	next := make(map[domain.Language]int)
	for _, r := range rows {
		if r.Position+1 > next[r.Lang] {
			next[r.Lang] = r.Position + 1
		}
	}
	return next
}
