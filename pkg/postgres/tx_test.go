package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx embeds pgx.Tx so only the methods WithTransaction uses need bodies.
type fakeTx struct {
	pgx.Tx
	committed   bool
	rolledBack  bool
	commitErr   error
	rollbackErr error
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return f.rollbackErr
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTransaction(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		tx := &fakeTx{}
		err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error { return nil })

		require.NoError(t, err)
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)
	})

	t.Run("rolls back and returns fn error", func(t *testing.T) {
		tx := &fakeTx{}
		fnErr := errors.New("insert failed")
		err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error { return fnErr })

		require.ErrorIs(t, err, fnErr)
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	})

	t.Run("reports rollback failure alongside original error", func(t *testing.T) {
		tx := &fakeTx{rollbackErr: errors.New("conn closed")}
		fnErr := errors.New("insert failed")
		err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error { return fnErr })

		require.ErrorIs(t, err, fnErr)
		assert.Contains(t, err.Error(), "postgres: rollback tx")
	})

	t.Run("begin failure", func(t *testing.T) {
		err := WithTransaction(context.Background(), &fakeBeginner{err: errors.New("pool exhausted")}, func(pgx.Tx) error {
			t.Fatal("fn must not run")
			return nil
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres: begin tx")
	})

	t.Run("commit failure", func(t *testing.T) {
		tx := &fakeTx{commitErr: errors.New("serialization failure")}
		err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error { return nil })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres: commit tx")
	})
}
