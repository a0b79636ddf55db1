package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OSRepository owns the per-order tables keyed by os_id. Rows written
// before the surrogate key was adopted may carry the human number, so
// every read filters with the either-form predicate.
type OSRepository struct {
	pool *pgxpool.Pool
}

func NewOSRepository(pool *pgxpool.Pool) *OSRepository {
	return &OSRepository{pool: pool}
}

func matchOS(match identity.Predicate, next int) (string, []any) {
	return match.SQL("os_id", identity.Dollar, next)
}

func (r *OSRepository) GetPanel(ctx context.Context, match identity.Predicate) (domain.Panel, error) {
	where, args := matchOS(match, 1)
	args = append(args, match.Resolved)

	var data []byte
	err := r.pool.QueryRow(ctx, `
		SELECT data
		FROM os_panels
		WHERE `+where+`
		ORDER BY (os_id = $3) DESC
		LIMIT 1
	`, args...).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Panel{}, domain.ErrNotFound
		}
		return domain.Panel{}, fmt.Errorf("get panel: %w", err)
	}

	var p domain.Panel
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Panel{}, fmt.Errorf("decode panel: %w", err)
	}
	return p, nil
}

func (r *OSRepository) SavePanel(ctx context.Context, orderID string, panel domain.Panel) error {
	data, err := json.Marshal(panel)
	if err != nil {
		return fmt.Errorf("encode panel: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO os_panels (os_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (os_id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = now()
	`, orderID, data)
	if err != nil {
		return fmt.Errorf("save panel: %w", err)
	}
	return nil
}

func (r *OSRepository) InsertChangeLog(ctx context.Context, l domain.ChangeLog) error {
	changes, err := json.Marshal(l.Changes)
	if err != nil {
		return fmt.Errorf("encode changes: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO os_change_logs (
			id, os_id, os_number, actor_id, actor_email, tab, changes, auto_saved, created_at
		) VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, $9)
	`, l.ID, l.OrderRef, l.OrderNumber, l.Actor.ID, l.Actor.Email, string(l.Tab), changes, l.AutoSaved, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert change log: %w", err)
	}
	return nil
}

func (r *OSRepository) ListChangeLogs(ctx context.Context, match identity.Predicate, limit int) ([]domain.ChangeLog, error) {
	where, args := matchOS(match, 1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, `
		SELECT id::text, os_id, COALESCE(os_number, ''), actor_id, COALESCE(actor_email, ''),
			tab, changes, auto_saved, created_at
		FROM os_change_logs
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $3
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list change logs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ChangeLog, 0)
	for rows.Next() {
		var (
			l       domain.ChangeLog
			tab     string
			changes []byte
		)
		if err := rows.Scan(&l.ID, &l.OrderRef, &l.OrderNumber, &l.Actor.ID, &l.Actor.Email,
			&tab, &changes, &l.AutoSaved, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan change log: %w", err)
		}
		l.Tab = domain.PanelTab(tab)
		if err := json.Unmarshal(changes, &l.Changes); err != nil {
			return nil, fmt.Errorf("decode changes: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *OSRepository) InsertComment(ctx context.Context, c domain.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO os_comments (id, os_id, author, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.OrderRef, c.Author, c.Body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *OSRepository) ListComments(ctx context.Context, match identity.Predicate) ([]domain.Comment, error) {
	where, args := matchOS(match, 1)

	rows, err := r.pool.Query(ctx, `
		SELECT id::text, os_id, author, body, created_at
		FROM os_comments
		WHERE `+where+`
		ORDER BY created_at ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.OrderRef, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *OSRepository) DeleteComment(ctx context.Context, match identity.Predicate, commentID string) error {
	where, args := matchOS(match, 2)
	args = append([]any{commentID}, args...)

	tag, err := r.pool.Exec(ctx, `DELETE FROM os_comments WHERE id::text = $1 AND `+where, args...)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OSRepository) UpsertRealCost(ctx context.Context, c domain.RealCost) (domain.RealCost, error) {
	var saved domain.RealCost
	err := r.pool.QueryRow(ctx, `
		INSERT INTO os_real_costs (id, os_id, category, amount_cents, note, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (os_id, category) DO UPDATE SET
			amount_cents = EXCLUDED.amount_cents,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
		RETURNING id::text, os_id, category, amount_cents, note, updated_at
	`, c.ID, c.OrderRef, c.Category, c.AmountCents, c.Note, c.UpdatedAt).Scan(
		&saved.ID, &saved.OrderRef, &saved.Category, &saved.AmountCents, &saved.Note, &saved.UpdatedAt,
	)
	if err != nil {
		return domain.RealCost{}, fmt.Errorf("upsert real cost: %w", err)
	}
	return saved, nil
}

func (r *OSRepository) ListRealCosts(ctx context.Context, match identity.Predicate) ([]domain.RealCost, error) {
	where, args := matchOS(match, 1)

	rows, err := r.pool.Query(ctx, `
		SELECT id::text, os_id, category, amount_cents, note, updated_at
		FROM os_real_costs
		WHERE `+where+`
		ORDER BY category ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list real costs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RealCost, 0)
	for rows.Next() {
		var c domain.RealCost
		if err := rows.Scan(&c.ID, &c.OrderRef, &c.Category, &c.AmountCents, &c.Note, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan real cost: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *OSRepository) DeleteRealCost(ctx context.Context, match identity.Predicate, category string) error {
	where, args := matchOS(match, 2)
	args = append([]any{category}, args...)

	tag, err := r.pool.Exec(ctx, `DELETE FROM os_real_costs WHERE category = $1 AND `+where, args...)
	if err != nil {
		return fmt.Errorf("delete real cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OSRepository) InsertSharedLink(ctx context.Context, l domain.SharedLink) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO os_shared_links (token, os_id, created_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, l.Token, l.OrderRef, l.CreatedBy, l.ExpiresAt, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert shared link: %w", err)
	}
	return nil
}

func (r *OSRepository) GetSharedLink(ctx context.Context, token string) (domain.SharedLink, error) {
	var l domain.SharedLink
	err := r.pool.QueryRow(ctx, `
		SELECT token, os_id, created_by, expires_at, created_at
		FROM os_shared_links
		WHERE token = $1
	`, token).Scan(&l.Token, &l.OrderRef, &l.CreatedBy, &l.ExpiresAt, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SharedLink{}, domain.ErrNotFound
		}
		return domain.SharedLink{}, fmt.Errorf("get shared link: %w", err)
	}
	return l, nil
}

func (r *OSRepository) ListSharedLinks(ctx context.Context, match identity.Predicate) ([]domain.SharedLink, error) {
	where, args := matchOS(match, 1)

	rows, err := r.pool.Query(ctx, `
		SELECT token, os_id, created_by, expires_at, created_at
		FROM os_shared_links
		WHERE `+where+`
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list shared links: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SharedLink, 0)
	for rows.Next() {
		var l domain.SharedLink
		if err := rows.Scan(&l.Token, &l.OrderRef, &l.CreatedBy, &l.ExpiresAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shared link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *OSRepository) DeleteSharedLink(ctx context.Context, token string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM os_shared_links WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete shared link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OSRepository) ListTaskRules(ctx context.Context) ([]domain.TaskRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, trigger_field, trigger_value, task_title, task_role
		FROM task_rules
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list task rules: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TaskRule, 0)
	for rows.Next() {
		var tr domain.TaskRule
		if err := rows.Scan(&tr.ID, &tr.TriggerField, &tr.TriggerValue, &tr.TaskTitle, &tr.TaskRole); err != nil {
			return nil, fmt.Errorf("scan task rule: %w", err)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (r *OSRepository) HasPendingTask(ctx context.Context, match identity.Predicate, title string) (bool, error) {
	where, args := matchOS(match, 3)
	args = append([]any{title, string(domain.TaskPending)}, args...)

	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM os_tasks
			WHERE title = $1 AND status = $2 AND `+where+`
		)
	`, args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pending task lookup: %w", err)
	}
	return exists, nil
}

func (r *OSRepository) InsertTask(ctx context.Context, t domain.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO os_tasks (id, os_id, title, role, status, automatic, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.OrderRef, t.Title, t.Role, string(t.Status), t.Automatic, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *OSRepository) ListTasks(ctx context.Context, match identity.Predicate) ([]domain.Task, error) {
	where, args := matchOS(match, 1)

	rows, err := r.pool.Query(ctx, `
		SELECT id::text, os_id, title, role, status, automatic, created_at
		FROM os_tasks
		WHERE `+where+`
		ORDER BY created_at ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Task, 0)
	for rows.Next() {
		var (
			t      domain.Task
			status string
		)
		if err := rows.Scan(&t.ID, &t.OrderRef, &t.Title, &t.Role, &status, &t.Automatic, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Status = domain.TaskStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}
