package dictionary

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// applyRowsCall records one ApplyRows invocation.
type applyRowsCall struct {
	EntryID   uuid.UUID
	Kind      domain.ChildKind
	Create    []domain.ChildRow
	Update    []domain.ChildRow
	DeleteIDs []uuid.UUID
}

type entryRepoMock struct {
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error)
	ListFunc             func(ctx context.Context, filter domain.EntryFilter) ([]domain.StoredEntry, error)
	CountFunc            func(ctx context.Context, filter domain.EntryFilter) (int, error)
	CreateFunc           func(ctx context.Context, e *domain.StoredEntry) (*domain.StoredEntry, error)
	ApplyRowsFunc        func(ctx context.Context, entryID uuid.UUID, kind domain.ChildKind, create, update []domain.ChildRow, deleteIDs []uuid.UUID) ([]domain.ChildRow, error)
	UpdateEntryFunc      func(ctx context.Context, id uuid.UUID, cover domain.CoverImage, expectedVersion int) (int, error)
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error

	mu              sync.Mutex
	createCalls     []*domain.StoredEntry
	applyRowsCalls  []applyRowsCall
	updateEntryArgs []domain.CoverImage
	listFilters     []domain.EntryFilter
}

func (m *entryRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error) {
	if m.GetByIDFunc == nil {
		panic("entryRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *entryRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error) {
	if m.GetByIDForUpdateFunc == nil {
		panic("entryRepoMock.GetByIDForUpdateFunc is nil")
	}
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *entryRepoMock) List(ctx context.Context, filter domain.EntryFilter) ([]domain.StoredEntry, error) {
	if m.ListFunc == nil {
		panic("entryRepoMock.ListFunc is nil")
	}
	m.mu.Lock()
	m.listFilters = append(m.listFilters, filter)
	m.mu.Unlock()
	return m.ListFunc(ctx, filter)
}

func (m *entryRepoMock) Count(ctx context.Context, filter domain.EntryFilter) (int, error) {
	if m.CountFunc == nil {
		panic("entryRepoMock.CountFunc is nil")
	}
	return m.CountFunc(ctx, filter)
}

func (m *entryRepoMock) Create(ctx context.Context, e *domain.StoredEntry) (*domain.StoredEntry, error) {
	if m.CreateFunc == nil {
		panic("entryRepoMock.CreateFunc is nil")
	}
	m.mu.Lock()
	m.createCalls = append(m.createCalls, e)
	m.mu.Unlock()
	return m.CreateFunc(ctx, e)
}

func (m *entryRepoMock) ApplyRows(ctx context.Context, entryID uuid.UUID, kind domain.ChildKind, create, update []domain.ChildRow, deleteIDs []uuid.UUID) ([]domain.ChildRow, error) {
	m.mu.Lock()
	m.applyRowsCalls = append(m.applyRowsCalls, applyRowsCall{entryID, kind, create, update, deleteIDs})
	m.mu.Unlock()
	if m.ApplyRowsFunc == nil {
		panic("entryRepoMock.ApplyRowsFunc is nil")
	}
	return m.ApplyRowsFunc(ctx, entryID, kind, create, update, deleteIDs)
}

func (m *entryRepoMock) UpdateEntry(ctx context.Context, id uuid.UUID, cover domain.CoverImage, expectedVersion int) (int, error) {
	if m.UpdateEntryFunc == nil {
		panic("entryRepoMock.UpdateEntryFunc is nil")
	}
	m.mu.Lock()
	m.updateEntryArgs = append(m.updateEntryArgs, cover)
	m.mu.Unlock()
	return m.UpdateEntryFunc(ctx, id, cover, expectedVersion)
}

func (m *entryRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("entryRepoMock.DeleteFunc is nil")
	}
	return m.DeleteFunc(ctx, id)
}

type categoryRepoMock struct {
	CountExistingFunc func(ctx context.Context, ids []uuid.UUID) (int, error)
	GetByEntryIDsFunc func(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]domain.Category, error)
	LinkFunc          func(ctx context.Context, entryID uuid.UUID, categoryIDs []uuid.UUID) error
	UnlinkFunc        func(ctx context.Context, entryID uuid.UUID, categoryIDs []uuid.UUID) error

	mu          sync.Mutex
	linked      [][]uuid.UUID
	unlinked    [][]uuid.UUID
	countedWith [][]uuid.UUID
}

func (m *categoryRepoMock) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	m.mu.Lock()
	m.countedWith = append(m.countedWith, ids)
	m.mu.Unlock()
	if m.CountExistingFunc == nil {
		return len(ids), nil
	}
	return m.CountExistingFunc(ctx, ids)
}

func (m *categoryRepoMock) GetByEntryIDs(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]domain.Category, error) {
	if m.GetByEntryIDsFunc == nil {
		return map[uuid.UUID][]domain.Category{}, nil
	}
	return m.GetByEntryIDsFunc(ctx, entryIDs)
}

func (m *categoryRepoMock) Link(ctx context.Context, entryID uuid.UUID, categoryIDs []uuid.UUID) error {
	m.mu.Lock()
	m.linked = append(m.linked, categoryIDs)
	m.mu.Unlock()
	if m.LinkFunc == nil {
		return nil
	}
	return m.LinkFunc(ctx, entryID, categoryIDs)
}

func (m *categoryRepoMock) Unlink(ctx context.Context, entryID uuid.UUID, categoryIDs []uuid.UUID) error {
	m.mu.Lock()
	m.unlinked = append(m.unlinked, categoryIDs)
	m.mu.Unlock()
	if m.UnlinkFunc == nil {
		return nil
	}
	return m.UnlinkFunc(ctx, entryID, categoryIDs)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
	calls       int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.RunInTxFunc == nil {
		return fn(ctx)
	}
	return m.RunInTxFunc(ctx, fn)
}
