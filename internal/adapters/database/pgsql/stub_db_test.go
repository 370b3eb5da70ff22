package pgsql

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubDB records the statements it receives and replays canned results.
type stubDB struct {
	execSQL  string
	execArgs []any
	execErr  error

	querySQL  string
	queryArgs []any
	rows      *stubRows
	queryErr  error

	rowSQL  string
	rowArgs []any
	row     stubRow
}

func (s *stubDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.execSQL, s.execArgs = sql, args
	if s.execErr != nil {
		return pgconn.CommandTag{}, s.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (s *stubDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.querySQL, s.queryArgs = sql, args
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if s.rows == nil {
		s.rows = &stubRows{}
	}
	return s.rows, nil
}

func (s *stubDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	s.rowSQL, s.rowArgs = sql, args
	return s.row
}

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

type stubRows struct {
	data   [][]any
	pos    int
	err    error
	closed bool
}

func (r *stubRows) Close()                                       { r.closed = true }
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	return assign(dest, r.data[r.pos-1])
}

func (r *stubRows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}
