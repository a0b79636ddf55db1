package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catering_ops/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const orderColumns = `
	id::text, COALESCE(number, ''), name, status, guests,
	starts_at, ends_at, archived_at, created_at, updated_at`

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// FindActiveIDByNumber is the resolver's only read. Archived orders are
// excluded here and not left to the partial unique index.
func (r *OrderRepository) FindActiveIDByNumber(ctx context.Context, number string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		SELECT id::text
		FROM orders
		WHERE number = $1 AND archived_at IS NULL
		LIMIT 1
	`, number).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("find order by number: %w", err)
	}
	return id, nil
}

func (r *OrderRepository) Upsert(ctx context.Context, order domain.Order) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO orders (
			id, number, name, status, guests, starts_at, ends_at, archived_at, created_at, updated_at
		) VALUES (
			$1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, now(), now()
		)
		ON CONFLICT (id) DO UPDATE SET
			number = EXCLUDED.number,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			guests = EXCLUDED.guests,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			archived_at = EXCLUDED.archived_at,
			updated_at = now()
	`, order.ID, order.Number, order.Name, string(order.Status), order.Guests,
		order.StartsAt, order.EndsAt, order.ArchivedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: number %q belongs to another active order", domain.ErrInvalid, order.Number)
		}
		return fmt.Errorf("upsert orders: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}

// Archive keeps the first archival time when called again.
func (r *OrderRepository) Archive(ctx context.Context, id string, at time.Time) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE orders
		SET archived_at = COALESCE(archived_at, $2), updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, at)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("archive order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		return []domain.Order{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list latest: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *OrderRepository) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *OrderRepository) ListOrderIDs(ctx context.Context, limit, offset int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list order ids: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.Name, &status, &o.Guests,
		&o.StartsAt, &o.EndsAt, &o.ArchivedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = domain.OrderStatus(status)
	return o, err
}
