// Package query turns fixed, parameterized SQL into reusable typed handles.
//
// A statement is declared once per query shape, usually as a package level
// value. Binding it to a connection and parameter values yields a Query, which
// is run by exactly one terminal operation: One, Opt, All or Iter for
// statements that return rows, Exec for those that do not.
//
//	rows, err := users.FetchUsers().Bind(client).All(ctx)
//
// The statement prepares itself lazily on each connection it is used with and
// remembers the prepared form, so later executions on that connection skip
// parsing and planning.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/typedq/cache"
	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/dialect"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Handle identifies one SQL text and caches its prepared form per
// connection. It is shared by Statement and ExecStatement.
type Handle struct {
	name       string
	sql        string
	arity      int
	serverName string
	dialect    dialect.Dialect
	cacheSize  int
	cache      *cache.StatementCache[any, database.Prepared]
}

type Option func(*Handle)

// WithArity declares the number of parameters. It must agree with the
// placeholders found in the SQL text.
func WithArity(n int) Option {
	return func(h *Handle) { h.arity = n }
}

// WithDialect sets the placeholder syntax used to count parameters.
// Postgres is the default.
func WithDialect(d dialect.Dialect) Option {
	return func(h *Handle) { h.dialect = d }
}

// WithCacheSize bounds how many connections keep a prepared form.
func WithCacheSize(n int) Option {
	return func(h *Handle) { h.cacheSize = n }
}

func newHandle(name, sql string, opts []Option) *Handle {
	h := &Handle{
		name:    name,
		sql:     sql,
		arity:   -1,
		dialect: dialect.NewPostgresDialect(),
	}
	for _, opt := range opts {
		opt(h)
	}

	counted := h.dialect.CountPlaceholders(sql)
	if h.arity >= 0 && h.arity != counted {
		panic(fmt.Sprintf("query: statement %s declares %d parameters but its SQL has %d", name, h.arity, counted))
	}
	h.arity = counted
	h.serverName = "typedq_" + name + "_" + strings.ToLower(ulid.Make().String())
	h.cache = cache.NewStatementCache[any, database.Prepared](h.cacheSize)
	return h
}

func (h *Handle) Name() string { return h.name }
func (h *Handle) SQL() string  { return h.sql }
func (h *Handle) Arity() int   { return h.arity }

// Prepare returns the prepared form of the statement for client, preparing it
// on first use. Failures are KindPrepare errors and are not retried.
func (h *Handle) Prepare(ctx context.Context, client database.Client) (database.Prepared, error) {
	p, cached, err := h.cache.GetOrPrepare(ctx, client.Key(), func(ctx context.Context) (database.Prepared, error) {
		return client.Prepare(ctx, h.serverName, h.sql)
	})
	if err != nil {
		return nil, newError(KindPrepare, h.name, err)
	}

	log := zerolog.Ctx(ctx)
	if cached {
		log.Trace().Str("statement", h.name).Msg("prepared statement cache hit")
	} else {
		log.Debug().Str("statement", h.name).Str("server_name", h.serverName).Msg("statement prepared")
	}
	return p, nil
}

// Invalidate forgets the prepared form held for client and deallocates it on
// the server. The next execution on client prepares again.
func (h *Handle) Invalidate(ctx context.Context, client database.Client) error {
	p, ok := h.cache.Get(client.Key())
	if !ok {
		return nil
	}
	h.cache.Remove(client.Key())
	zerolog.Ctx(ctx).Debug().Str("statement", h.name).Msg("prepared statement invalidated")

	if err := client.Deallocate(ctx, p); err != nil {
		return newError(KindPrepare, h.name, err)
	}
	return nil
}

// Reset forgets every cached prepared form without contacting the server.
func (h *Handle) Reset() {
	h.cache.Purge()
}

func (h *Handle) checkArity(n int) error {
	if n == h.arity {
		return nil
	}
	return newError(KindBind, h.name, fmt.Errorf("%w: takes %d, got %d", ErrArity, h.arity, n))
}

// Statement is a handle whose result rows are extracted into V and mapped
// into T.
type Statement[V, T any] struct {
	*Handle
	extract Extractor[V]
	mapper  Mapper[V, T]
}

// New declares a statement returning rows. extract reads one row into the
// row view V; mapper converts the view into the record handed to callers.
func New[V, T any](name, sql string, extract Extractor[V], mapper Mapper[V, T], opts ...Option) *Statement[V, T] {
	return &Statement[V, T]{
		Handle:  newHandle(name, sql, opts),
		extract: extract,
		mapper:  mapper,
	}
}

// Bind associates params positionally with the statement's placeholders. It
// performs no I/O and never fails; an arity mismatch is reported by the
// terminal operation before anything is sent.
func (s *Statement[V, T]) Bind(client database.Client, params ...any) *Query[V, T] {
	return &Query[V, T]{
		stmt:   s,
		client: client,
		params: params,
		err:    s.checkArity(len(params)),
		mapper: s.mapper,
	}
}

// ExecStatement is a handle for statements that return no rows.
type ExecStatement struct {
	*Handle
}

func NewExec(name, sql string, opts ...Option) *ExecStatement {
	return &ExecStatement{Handle: newHandle(name, sql, opts)}
}

func (s *ExecStatement) Bind(client database.Client, params ...any) *ExecQuery {
	return &ExecQuery{
		stmt:   s,
		client: client,
		params: params,
		err:    s.checkArity(len(params)),
	}
}
