package axis

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for axis persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// LoadAll retrieves every persisted axis.
	LoadAll(ctx context.Context) ([]Config, error)

	// Save inserts or replaces an axis configuration, including its value.
	Save(ctx context.Context, cfg Config) error

	// SaveValue updates only the live value of an axis.
	// Returns ErrNotFound if the axis does not exist.
	SaveValue(ctx context.Context, name string, v Value) error

	// Delete removes an axis by canonical name.
	Delete(ctx context.Context, name string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the axes table.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// LoadAll retrieves every persisted axis.
func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]Config, error) {
	query := `
		SELECT name, type, alias, min, max, value, bool_value
		FROM axes
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying axes: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var configs []Config
	for rows.Next() {
		var (
			c         Config
			alias     sql.NullString
			num       float64
			boolValue int
		)
		if err := rows.Scan(&c.Name, &c.Type, &alias, &c.Min, &c.Max, &num, &boolValue); err != nil {
			return nil, fmt.Errorf("scanning axis: %w", err)
		}
		if alias.Valid {
			c.Alias = alias.String
		}
		if c.Type == TypeBoolean {
			c.Value = Boolean(boolValue != 0)
		} else {
			c.Value = Number(num)
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating axes: %w", err)
	}

	return configs, nil
}

// Save inserts or replaces an axis configuration, including its value.
func (r *SQLiteRepository) Save(ctx context.Context, cfg Config) error {
	query := `
		INSERT INTO axes (name, type, alias, min, max, value, bool_value, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			type = excluded.type,
			alias = excluded.alias,
			min = excluded.min,
			max = excluded.max,
			value = excluded.value,
			bool_value = excluded.bool_value,
			updated_at = excluded.updated_at`

	var alias any
	if cfg.Alias != "" {
		alias = cfg.Alias
	}

	boolValue := 0
	if cfg.Value.On {
		boolValue = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		cfg.Name, string(cfg.Type), alias, cfg.Min, cfg.Max,
		cfg.Value.Num, boolValue, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving axis %q: %w", cfg.Name, err)
	}
	return nil
}

// SaveValue updates only the live value of an axis.
func (r *SQLiteRepository) SaveValue(ctx context.Context, name string, v Value) error {
	boolValue := 0
	if v.On {
		boolValue = 1
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE axes SET value = ?, bool_value = ?, updated_at = ? WHERE name = ?`,
		v.Num, boolValue, time.Now().UTC().Format(time.RFC3339), name,
	)
	if err != nil {
		return fmt.Errorf("saving value of axis %q: %w", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving value of axis %q: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Delete removes an axis by canonical name.
func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM axes WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting axis %q: %w", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting axis %q: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
