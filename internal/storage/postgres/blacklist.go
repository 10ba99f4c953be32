package postgres

import "context"

type blacklistRepository struct {
	storage *Storage
}

func (r *blacklistRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT number FROM blacklist ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numbers := make([]string, 0)
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *blacklistRepository) Add(ctx context.Context, number string) error {
	_, err := r.storage.pool.Exec(ctx, `INSERT INTO blacklist (number) VALUES ($1) ON CONFLICT (number) DO NOTHING`, number)
	return err
}

// Remove is a no-op for unknown numbers.
func (r *blacklistRepository) Remove(ctx context.Context, number string) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM blacklist WHERE number=$1`, number)
	return err
}

func (r *blacklistRepository) Contains(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.storage.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blacklist WHERE number=$1)`, number).Scan(&exists)
	return exists, err
}
