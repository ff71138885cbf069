package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilkin/AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr error
	commits   int
	rollbacks int
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

type fakeDB struct {
	tx    *fakeTx
	begun int
}

func (d *fakeDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	d.begun++
	return d.tx, nil
}

// Ошибка сериализации в той форме, в которой её отдают репозитории:
// сырой *pq.Error дважды обёрнут через %w (слой репозитория и слой usecase).
func wrappedSerializationErr(code pq.ErrorCode) error {
	pqErr := &pq.Error{Code: code}
	repoErr := fmt.Errorf("%w: List - execute query: %w", errors.New("repository: failed to execute query"), pqErr)
	return fmt.Errorf("%w: failed to get bookings: %w", errors.New("usecase: internal error"), repoErr)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23P01"}))
	assert.False(t, IsSerializationFailure(errors.New("plain error")))
	assert.False(t, IsSerializationFailure(nil))
}

func TestIsSerializationFailure_SurvivesLayeredWrapping(t *testing.T) {
	assert.True(t, IsSerializationFailure(wrappedSerializationErr("40001")))
	assert.True(t, IsSerializationFailure(wrappedSerializationErr("40P01")))
}

func TestDoSerializable_RetriesOnceOnSerializationFailure(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	mgr := NewTransactionManager(db)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return wrappedSerializationErr("40001")
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.True(t, IsSerializationFailure(err))
	assert.Equal(t, 2, db.tx.rollbacks)
}

func TestDoSerializable_SecondAttemptSucceeds(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	mgr := NewTransactionManager(db)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return wrappedSerializationErr("40001")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, db.tx.commits)
}

func TestDoSerializable_NoRetryForOtherErrors(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	mgr := NewTransactionManager(db)

	boom := errors.New("boom")
	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestDoSerializable_RetriesCommitTimeSerializationFailure(t *testing.T) {
	tx := &fakeTx{commitErr: &pq.Error{Code: "40001"}}
	db := &fakeDB{tx: tx}
	mgr := NewTransactionManager(db)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.True(t, IsSerializationFailure(err))
	assert.Equal(t, 2, db.begun)
}

func TestDoSerializable_PropagatesTransactionToContext(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	mgr := NewTransactionManager(db)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})
	require.NoError(t, err)
}
