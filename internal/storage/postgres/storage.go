package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/orderstatus/internal/domain/errors"
	"github.com/polkiloo/orderstatus/internal/domain/model"
	"github.com/polkiloo/orderstatus/internal/domain/repository"
)

const healthCheckTimeout = 2 * time.Second

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

var _ repository.Factory = (*Storage)(nil)

type orderRepository struct {
	storage *Storage
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var orderColumns = []string{
	"order_id", "requester_id", "created_by",
	"requested", "accepted", "completed", "paid", "alert",
	"created_at", "updated_at",
}

const returningColumns = `order_id, requester_id, created_by, requested, accepted, completed, paid, alert, created_at, updated_at`

// New connects to PostgreSQL and ensures the schema exists.
func New(ctx context.Context, dsn string, maxConns int32, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL,
            requester_id TEXT NOT NULL,
            created_by TEXT NOT NULL,
            requested BOOLEAN NOT NULL DEFAULT FALSE,
            accepted BOOLEAN NOT NULL DEFAULT FALSE,
            completed BOOLEAN NOT NULL DEFAULT FALSE,
            paid BOOLEAN NOT NULL DEFAULT FALSE,
            alert BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_requester ON orders(requester_id, order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_by ON orders(created_by, order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// classify maps driver errors onto domain errors. Anything unrecognised is
// reported as storage unavailable with the cause kept in the chain.
func (s *Storage) classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return domainErrors.ErrDuplicateOrder
	}

	if s.logger != nil {
		s.logger.Error("storage operation failed", slog.String("op", op), slog.Any("error", err))
	}
	return fmt.Errorf("%s: %w: %w", op, domainErrors.ErrStorageUnavailable, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.OrderID, &o.RequesterID, &o.CreatorID,
		&o.Requested, &o.Accepted, &o.Completed, &o.Paid, &o.Alert,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (order_id, requester_id, created_by) VALUES ($1, $2, $3)
                   RETURNING ` + returningColumns
	created, err := scanOrder(r.storage.pool.QueryRow(ctx, query, order.OrderID, order.RequesterID, order.CreatorID))
	if err != nil {
		return nil, r.storage.classify("create order", err)
	}
	return created, nil
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT ` + returningColumns + ` FROM orders WHERE order_id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, r.storage.classify("get order", err)
	}
	return order, nil
}

const updateFlagsQuery = `UPDATE orders
                          SET requested=$2, accepted=$3, completed=$4, paid=$5, alert=$6, updated_at=NOW()
                          WHERE order_id=$1
                          RETURNING ` + returningColumns

func flagArgs(o model.Order) []any {
	return []any{o.OrderID, o.Requested, o.Accepted, o.Completed, o.Paid, o.Alert}
}

func (r *orderRepository) Save(ctx context.Context, order model.Order) (*model.Order, error) {
	saved, err := scanOrder(r.storage.pool.QueryRow(ctx, updateFlagsQuery, flagArgs(order)...))
	if err != nil {
		return nil, r.storage.classify("save order", err)
	}
	return saved, nil
}

// Mutate holds a row lock on the order while fn decides on the new flags.
// An error returned by fn rolls the transaction back and is passed through as is.
func (r *orderRepository) Mutate(ctx context.Context, orderID int64, fn repository.MutateFunc) (*model.Order, error) {
	const selectForUpdate = `SELECT ` + returningColumns + ` FROM orders WHERE order_id=$1 FOR UPDATE`

	var (
		saved    *model.Order
		rejected error
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		current, err := scanOrder(tx.QueryRow(ctx, selectForUpdate, orderID))
		if err != nil {
			return err
		}

		next, err := fn(*current)
		if err != nil {
			rejected = err
			return err
		}
		next.OrderID = current.OrderID

		saved, err = scanOrder(tx.QueryRow(ctx, updateFlagsQuery, flagArgs(next)...))
		return err
	})
	if rejected != nil {
		return nil, rejected
	}
	if err != nil {
		return nil, r.storage.classify("mutate order", err)
	}
	return saved, nil
}

func (r *orderRepository) ListByRequester(ctx context.Context, requesterID string, filter model.ListFilter) ([]model.Order, error) {
	return r.list(ctx, "requester_id", requesterID, filter)
}

func (r *orderRepository) ListByCreator(ctx context.Context, creatorID string, filter model.ListFilter) ([]model.Order, error) {
	return r.list(ctx, "created_by", creatorID, filter)
}

func (r *orderRepository) list(ctx context.Context, column, value string, filter model.ListFilter) ([]model.Order, error) {
	builder := psql.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{column: value}).
		OrderBy("order_id")

	if filter.State != "" {
		st, ok := model.ParseStateType(string(filter.State))
		if !ok {
			return nil, fmt.Errorf("%w: %q", domainErrors.ErrInvalidStateType, filter.State)
		}
		builder = builder.Where(sq.Eq{string(st): true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, r.storage.classify("list orders", err)
	}
	defer rows.Close()

	result := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, r.storage.classify("list orders", err)
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storage.classify("list orders", err)
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", domainErrors.ErrStorageUnavailable, err)
	}
	return nil
}
