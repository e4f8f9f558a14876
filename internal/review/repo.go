package review

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("comment not found")

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListByProduct(ctx context.Context, productID string) ([]Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, c *Comment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO product_comments (id, product_id, user_id, text, rating, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		RETURNING created_at
	`, c.ID, c.ProductID, c.UserID, c.Text, c.Rating).Scan(&c.CreatedAt)
	return errors.Wrap(err, "insert comment")
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Comment
	err := r.db.QueryRow(ctx, `
		SELECT id, product_id, user_id, text, rating, created_at
		FROM product_comments WHERE id=$1
	`, id).Scan(&c.ID, &c.ProductID, &c.UserID, &c.Text, &c.Rating, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select comment")
	}
	return &c, nil
}

func (r *PGRepo) ListByProduct(ctx context.Context, productID string) ([]Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, user_id, text, rating, created_at
		FROM product_comments
		WHERE product_id=$1
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ProductID, &c.UserID, &c.Text, &c.Rating, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ct, err := r.db.Exec(ctx, `DELETE FROM product_comments WHERE id=$1`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete comment")
	}
	return ct.RowsAffected() > 0, nil
}
