package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

const uniqueViolation = "23505"

const orderColumns = `order_number, created_at, time_of_day, item, combo, extras, customer_name,
                   phone, address, reference, payment, status, status_label`

type orderRepository struct {
	storage *Storage
}

func orderArgs(o model.Order) []any {
	return []any{
		o.Number, o.CreatedAt, o.TimeOfDay, o.Item, o.Combo, o.Extras, o.CustomerName,
		o.Phone, o.Address, o.Reference, o.Payment, string(o.Status), o.StatusLabel,
	}
}

func scanOrder(row pgx.Row, withRemovedAt bool) (model.Order, error) {
	var (
		o      model.Order
		status string
	)
	dest := []any{
		&o.Number, &o.CreatedAt, &o.TimeOfDay, &o.Item, &o.Combo, &o.Extras, &o.CustomerName,
		&o.Phone, &o.Address, &o.Reference, &o.Payment, &status, &o.StatusLabel,
	}
	if withRemovedAt {
		dest = append(dest, &o.RemovedAt)
	}
	if err := row.Scan(dest...); err != nil {
		return model.Order{}, err
	}
	o.Status = model.OrderStatus(status)
	return o, nil
}

func (r *orderRepository) list(ctx context.Context, query string, withRemovedAt bool, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows, withRemovedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListActive(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM active_orders ORDER BY created_at DESC`
	return r.list(ctx, query, false)
}

func (r *orderRepository) ListArchive(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + `, removed_at FROM shipped_orders ORDER BY created_at DESC`
	return r.list(ctx, query, true)
}

func (r *orderRepository) ListArchiveSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + `, removed_at FROM shipped_orders
                   WHERE created_at >= $1 ORDER BY created_at DESC`
	return r.list(ctx, query, true, since)
}

func (r *orderRepository) ListHistory(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM order_history ORDER BY created_at DESC`
	return r.list(ctx, query, false)
}

func (r *orderRepository) FindActiveByOrderNumber(ctx context.Context, number string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM active_orders WHERE order_number=$1`
	o, err := scanOrder(r.storage.pool.QueryRow(ctx, query, number), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) InsertActive(ctx context.Context, order model.Order) error {
	const query = `INSERT INTO active_orders (` + orderColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.storage.pool.Exec(ctx, query, orderArgs(order)...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) UpdateActiveStatus(ctx context.Context, number string, status model.OrderStatus, label string) error {
	const query = `UPDATE active_orders SET status=$1, status_label=$2 WHERE order_number=$3`
	tag, err := r.storage.pool.Exec(ctx, query, string(status), label, number)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteActive(ctx context.Context, number string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM active_orders WHERE order_number=$1`, number)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpsertHistory(ctx context.Context, order model.Order) error {
	const query = `INSERT INTO order_history (` + orderColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                   ON CONFLICT (order_number) DO UPDATE SET
                       time_of_day = EXCLUDED.time_of_day,
                       item = EXCLUDED.item,
                       combo = EXCLUDED.combo,
                       extras = EXCLUDED.extras,
                       customer_name = EXCLUDED.customer_name,
                       phone = EXCLUDED.phone,
                       address = EXCLUDED.address,
                       reference = EXCLUDED.reference,
                       payment = EXCLUDED.payment,
                       status = EXCLUDED.status,
                       status_label = EXCLUDED.status_label,
                       updated_at = NOW()`
	_, err := r.storage.pool.Exec(ctx, query, orderArgs(order)...)
	return err
}

// MirrorActiveToHistory copies the current active row into history in one
// statement. The share lock makes a concurrent status update either land
// first or wait for the copy, so history never receives a superseded status.
func (r *orderRepository) MirrorActiveToHistory(ctx context.Context, number string) (bool, error) {
	const query = `INSERT INTO order_history (` + orderColumns + `)
                   SELECT ` + orderColumns + ` FROM active_orders WHERE order_number=$1 FOR SHARE
                   ON CONFLICT (order_number) DO UPDATE SET
                       time_of_day = EXCLUDED.time_of_day,
                       item = EXCLUDED.item,
                       combo = EXCLUDED.combo,
                       extras = EXCLUDED.extras,
                       customer_name = EXCLUDED.customer_name,
                       phone = EXCLUDED.phone,
                       address = EXCLUDED.address,
                       reference = EXCLUDED.reference,
                       payment = EXCLUDED.payment,
                       status = EXCLUDED.status,
                       status_label = EXCLUDED.status_label,
                       updated_at = NOW()`
	tag, err := r.storage.pool.Exec(ctx, query, number)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) InsertArchive(ctx context.Context, order model.Order) (bool, error) {
	const query = `INSERT INTO shipped_orders (` + orderColumns + `, removed_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
                   ON CONFLICT (order_number) DO NOTHING`
	removedAt := time.Now()
	if order.RemovedAt != nil {
		removedAt = *order.RemovedAt
	}
	tag, err := r.storage.pool.Exec(ctx, query, append(orderArgs(order), removedAt)...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) AppendTransition(ctx context.Context, t model.Transition) error {
	const query = `INSERT INTO order_transitions (id, order_number, from_status, to_status, label, at)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.storage.pool.Exec(ctx, query, t.ID, t.OrderNumber, string(t.From), string(t.To), t.Label, t.At)
	return err
}

func (r *orderRepository) ListTransitions(ctx context.Context, number string) ([]model.Transition, error) {
	const query = `SELECT id, order_number, from_status, to_status, label, at
                   FROM order_transitions WHERE order_number=$1 ORDER BY at`
	rows, err := r.storage.pool.Query(ctx, query, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Transition, 0)
	for rows.Next() {
		var (
			t        model.Transition
			from, to string
		)
		if err := rows.Scan(&t.ID, &t.OrderNumber, &from, &to, &t.Label, &t.At); err != nil {
			return nil, err
		}
		t.From, t.To = model.OrderStatus(from), model.OrderStatus(to)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
