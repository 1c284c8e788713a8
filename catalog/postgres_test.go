package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/minicart/driver"
	"goflare.io/minicart/models"
)

// tableRows is a pgx.Rows over in-memory values.
type tableRows struct {
	columns []string
	values  [][]any
	current int
	closed  bool
}

func (r *tableRows) Close()                        { r.closed = true }
func (r *tableRows) Err() error                    { return nil }
func (r *tableRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *tableRows) Conn() *pgx.Conn               { return nil }
func (r *tableRows) RawValues() [][]byte           { return nil }

func (r *tableRows) FieldDescriptions() []pgconn.FieldDescription {
	fields := make([]pgconn.FieldDescription, len(r.columns))
	for i, name := range r.columns {
		fields[i] = pgconn.FieldDescription{Name: name}
	}
	return fields
}

func (r *tableRows) Next() bool {
	if r.closed || r.current >= len(r.values) {
		return false
	}
	r.current++
	return true
}

func (r *tableRows) Values() ([]any, error) {
	return r.values[r.current-1], nil
}

func (r *tableRows) Scan(dest ...any) error {
	row := r.values[r.current-1]
	if len(dest) != len(row) {
		return errors.New("scan: column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = row[i].(int64)
		case *string:
			*p = row[i].(string)
		default:
			return errors.New("scan: unsupported destination")
		}
	}
	return nil
}

// recordingTx answers Query and records how the transaction ended.
type recordingTx struct {
	pgx.Tx
	rows       *tableRows
	queryErr   error
	sql        string
	committed  bool
	rolledBack bool
}

func (tx *recordingTx) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	tx.sql = sql
	if tx.queryErr != nil {
		return nil, tx.queryErr
	}
	return tx.rows, nil
}

func (tx *recordingTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *recordingTx) Rollback(context.Context) error {
	tx.rolledBack = true
	return nil
}

type singleTxPool struct {
	driver.PostgresPool
	tx   *recordingTx
	opts pgx.TxOptions
}

func (p *singleTxPool) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	p.opts = opts
	return p.tx, nil
}

func newPostgresSource(tx *recordingTx) (*PostgresSource, *singleTxPool) {
	pool := &singleTxPool{tx: tx}
	tm := driver.NewTransactionManager(pool, zap.NewNop())
	return NewPostgresSource(tm, zap.NewNop()), pool
}

func TestPostgresSource_Load(t *testing.T) {
	tx := &recordingTx{rows: &tableRows{
		columns: []string{"id", "name", "price"},
		values: [][]any{
			{int64(1), "iPhone 16 pro", int64(39900)},
			{int64(4), "iPad", int64(12900)},
		},
	}}
	source, pool := newPostgresSource(tx)

	products, err := source.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.Product{
		{ID: 1, Name: "iPhone 16 pro", Price: 39900},
		{ID: 4, Name: "iPad", Price: 12900},
	}, products)
	assert.Equal(t, listProductsSQL, tx.sql)
	assert.Equal(t, pgx.ReadOnly, pool.opts.AccessMode)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.True(t, tx.rows.closed)
}

func TestPostgresSource_LoadMapsColumnsByName(t *testing.T) {
	tx := &recordingTx{rows: &tableRows{
		columns: []string{"price", "id", "name"},
		values:  [][]any{{int64(21900), int64(5), "iPad Air"}},
	}}
	source, _ := newPostgresSource(tx)

	products, err := source.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.Product{{ID: 5, Name: "iPad Air", Price: 21900}}, products)
}

func TestPostgresSource_LoadUnknownColumn(t *testing.T) {
	tx := &recordingTx{rows: &tableRows{
		columns: []string{"id", "title", "price"},
		values:  [][]any{{int64(5), "iPad Air", int64(21900)}},
	}}
	source, _ := newPostgresSource(tx)

	_, err := source.Load(context.Background())

	require.Error(t, err)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestPostgresSource_QueryError(t *testing.T) {
	missing := &pgconn.PgError{Code: "42P01", Message: `relation "products" does not exist`}
	tx := &recordingTx{queryErr: missing}
	source, _ := newPostgresSource(tx)

	_, err := source.Load(context.Background())

	assert.ErrorIs(t, err, missing)
	assert.True(t, tx.rolledBack)
}
