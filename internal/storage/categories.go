package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
)

// Categories are shared reference data: they have no owner and are visible
// to every user, matching the single-tenant deployment model.

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if c.Color == "" {
		c.Color = core.DefaultCategoryColor
	}
	if c.Icon == "" {
		c.Icon = core.DefaultCategoryIcon
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, color, icon, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Description, c.Color, c.Icon, now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrDuplicateCategory
		}
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", c.Name)
	return id, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, color = ?, icon = ? WHERE id = ?`,
		c.Name, c.Description, c.Color, c.Icon, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateCategory
		}
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteCategory removes the category; its expenses and budgets go with it
// via the foreign-key cascade.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var (
		c       core.Category
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, color, icon, created_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.CreatedAt = parseTime(created)
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, color, icon, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var (
			c       core.Category
			created string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon, &created); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt = parseTime(created)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
