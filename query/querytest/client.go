// Package querytest provides a scripted in-memory database.Client for tests of
// code built on package query.
package querytest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/Konsultn-Engineering/typedq/database"
)

// Result scripts what the client returns for one SQL text.
type Result struct {
	Rows [][]any
	// Affected is returned by Exec.
	Affected int64
	// Err is returned by Query or Exec.
	Err error
	// RowErr is reported by Rows.Err after the scripted rows are read.
	RowErr error
}

// Call records one Query or Exec.
type Call struct {
	SQL  string
	Args []any
}

// Client implements database.Client in memory. Results are looked up by the
// exact SQL text of the prepared statement.
type Client struct {
	mu         sync.Mutex
	results    map[string]Result
	prepareErr map[string]error
	prepared   map[string]string // name -> sql
	calls      []Call
	prepares   int
	deallocs   int
	open       int
}

func NewClient() *Client {
	return &Client{
		results:    map[string]Result{},
		prepareErr: map[string]error{},
		prepared:   map[string]string{},
	}
}

// On scripts the result for sql.
func (c *Client) On(sql string, res Result) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[sql] = res
	return c
}

// FailPrepare makes preparing sql fail with err.
func (c *Client) FailPrepare(sql string, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prepareErr[sql] = err
	return c
}

func (c *Client) Key() any { return c }

func (c *Client) Prepare(_ context.Context, name, sql string) (database.Prepared, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.prepareErr[sql]; ok {
		return nil, err
	}
	c.prepares++
	c.prepared[name] = sql
	return prepared{name: name, sql: sql}, nil
}

func (c *Client) Query(ctx context.Context, stmt database.Prepared, args ...any) (database.Rows, error) {
	res, err := c.lookup(ctx, stmt, args)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.open++
	c.mu.Unlock()
	return &rows{client: c, data: res.Rows, err: res.RowErr, pos: -1}, nil
}

func (c *Client) Exec(ctx context.Context, stmt database.Prepared, args ...any) (int64, error) {
	res, err := c.lookup(ctx, stmt, args)
	if err != nil {
		return 0, err
	}
	return res.Affected, nil
}

func (c *Client) Deallocate(_ context.Context, stmt database.Prepared) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.prepared[stmt.Name()]; !ok {
		return fmt.Errorf("prepared statement %q does not exist", stmt.Name())
	}
	delete(c.prepared, stmt.Name())
	c.deallocs++
	return nil
}

func (c *Client) lookup(ctx context.Context, stmt database.Prepared, args []any) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prepared[stmt.Name()] != stmt.SQL() {
		return Result{}, fmt.Errorf("prepared statement %q does not exist", stmt.Name())
	}
	c.calls = append(c.calls, Call{SQL: stmt.SQL(), Args: args})
	res, ok := c.results[stmt.SQL()]
	if !ok {
		return Result{}, fmt.Errorf("querytest: no result scripted for %q", stmt.SQL())
	}
	if res.Err != nil {
		return Result{}, res.Err
	}
	return res, nil
}

// Prepares reports how many statements were prepared.
func (c *Client) Prepares() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepares
}

// Deallocations reports how many prepared statements were released.
func (c *Client) Deallocations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deallocs
}

// Calls returns every Query and Exec in order.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// OpenRows reports result sets that were opened and not yet closed.
func (c *Client) OpenRows() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

type prepared struct {
	name string
	sql  string
}

func (p prepared) Name() string { return p.name }
func (p prepared) SQL() string  { return p.sql }

type rows struct {
	client *Client
	data   [][]any
	err    error
	pos    int
	closed bool
}

func (r *rows) Next() bool {
	if r.closed || r.pos+1 >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *rows) Err() error {
	if r.pos+1 >= len(r.data) {
		return r.err
	}
	return nil
}

func (r *rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.client.mu.Lock()
	r.client.open--
	r.client.mu.Unlock()
	return nil
}

// Scan assigns the current row to dest by position. Each value must be
// assignable to the pointed-to type; nil sets the zero value.
func (r *rows) Scan(dest ...any) error {
	if r.closed || r.pos < 0 || r.pos >= len(r.data) {
		return fmt.Errorf("querytest: scan without a current row")
	}
	row := r.data[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("querytest: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("querytest: destination %d is not a non-nil pointer", i)
		}
		target := dv.Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		sv := reflect.ValueOf(row[i])
		if !sv.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("querytest: cannot scan column %d of type %s into %s", i, sv.Type(), target.Type())
		}
		target.Set(sv)
	}
	return nil
}
