package reconcile

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// CategoryPlan is the membership change set of an entry.
// Connect and Disconnect never share an id.
type CategoryPlan struct {
	Connect    []uuid.UUID
	Disconnect []uuid.UUID
}

func (p CategoryPlan) IsEmpty() bool {
	return len(p.Connect) == 0 && len(p.Disconnect) == 0
}

// Categories diffs category memberships. A nil desired slice leaves them
// untouched; ModePatch only connects.
func Categories(mode Mode, current, desired []uuid.UUID) CategoryPlan {
	var plan CategoryPlan
	if desired == nil {
		return plan
	}

	have := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		if want[id] {
			continue
		}
		want[id] = true
		if !have[id] {
			plan.Connect = append(plan.Connect, id)
		}
	}

	if mode == ModeReplaceAll {
		for _, id := range current {
			if !want[id] {
				plan.Disconnect = append(plan.Disconnect, id)
				want[id] = true
			}
		}
	}

	return plan
}

// Desired is the client-submitted state of an entry. Nil fields are left as
// they are.
type Desired struct {
	Cover       *domain.CoverImage
	Rows        map[domain.ChildKind][]domain.ChildRow
	CategoryIDs []uuid.UUID
}

// Plan is the full change set for one entry.
type Plan struct {
	EntryID    uuid.UUID
	Mode       Mode
	Cover      *domain.CoverImage
	Kinds      []KindPlan
	Categories CategoryPlan
}

// IsEmpty reports whether applying the plan would change nothing.
func (p Plan) IsEmpty() bool {
	if p.Cover != nil || !p.Categories.IsEmpty() {
		return false
	}
	for _, k := range p.Kinds {
		if !k.IsEmpty() {
			return false
		}
	}
	return true
}

// Adopted returns every desired id that matched no current row.
func (p Plan) Adopted() []uuid.UUID {
	var out []uuid.UUID
	for _, k := range p.Kinds {
		out = append(out, k.Adopted...)
	}
	return out
}

// Counts returns the number of created, updated and deleted rows.
func (p Plan) Counts() (created, updated, deleted int) {
	for _, k := range p.Kinds {
		created += len(k.Create)
		updated += len(k.Update)
		deleted += len(k.Delete)
	}
	return created, updated, deleted
}

// Build diffs a whole entry. Kinds without changes are omitted and every
// emitted row carries the entry id.
func Build(current domain.StoredEntry, mode Mode, desired Desired) Plan {
	plan := Plan{EntryID: current.ID, Mode: mode}

	if desired.Cover != nil && *desired.Cover != current.CoverImage {
		cover := *desired.Cover
		plan.Cover = &cover
	}

	for _, kind := range domain.ChildKinds() {
		kp := Rows(kind, mode, current.Rows[kind], desired.Rows[kind])
		if kp.IsEmpty() && len(kp.Adopted) == 0 {
			continue
		}
		stamp(kp.Create, current.ID)
		stamp(kp.Update, current.ID)
		plan.Kinds = append(plan.Kinds, kp)
	}

	plan.Categories = Categories(mode, current.CategoryIDs(), desired.CategoryIDs)

	return plan
}

func stamp(rows []domain.ChildRow, entryID uuid.UUID) {
	for i := range rows {
		rows[i].EntryID = entryID
	}
}
