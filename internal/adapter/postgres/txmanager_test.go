package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/postgres"
	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/postgres/testhelper"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRunInTx_CommitUsesTxQuerier(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM entry_words`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	tm := postgres.NewTxManager(mock)
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, mock)
		if q == postgres.Querier(mock) {
			t.Error("QuerierFromCtx returned the fallback inside a transaction")
		}
		_, err := q.Exec(ctx, `DELETE FROM entry_words WHERE id = $1`, uuid.New())
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("apply failed")
	tm := postgres.NewTxManager(mock)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tm := postgres.NewTxManager(mock)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})
}

func TestRunInTx_BeginError(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	tm := postgres.NewTxManager(mock)
	called := false
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error from Begin")
	}
	if called {
		t.Fatal("fn must not run when Begin fails")
	}
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tm := postgres.NewTxManager(mock)
	sentinel := errors.New("inner failed")

	err := tm.RunInTx(context.Background(), func(outer context.Context) error {
		outerQ := postgres.QuerierFromCtx(outer, mock)
		return tm.RunInTx(outer, func(inner context.Context) error {
			if postgres.QuerierFromCtx(inner, mock) != outerQ {
				t.Error("nested RunInTx started a second transaction")
			}
			return sentinel
		})
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunInTx_RollbackFailureKeepsCause(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("conn lost"))

	sentinel := errors.New("apply failed")
	tm := postgres.NewTxManager(mock)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
}

func TestQuerierFromCtx_Fallback(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	if got := postgres.QuerierFromCtx(context.Background(), mock); got != postgres.Querier(mock) {
		t.Fatal("expected fallback querier outside a transaction")
	}
}

func entryExists(t *testing.T, q postgres.Querier, id uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := q.QueryRow(context.Background(), `SELECT EXISTS(SELECT 1 FROM entries WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		t.Fatalf("entryExists query: %v", err)
	}
	return exists
}

func TestRunInTx_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	committed, rolledBack := uuid.New(), uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx, `INSERT INTO entries (id) VALUES ($1)`, committed)
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	sentinel := errors.New("abort")
	err = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if _, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx, `INSERT INTO entries (id) VALUES ($1)`, rolledBack); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if !entryExists(t, pool, committed) {
		t.Error("expected entry to exist after committed transaction")
	}
	if entryExists(t, pool, rolledBack) {
		t.Error("expected entry NOT to exist after rolled-back transaction")
	}
}
