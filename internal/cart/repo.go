package cart

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type Repository interface {
	// Upsert adds l.Quantity to the (session, product, size) line, creating
	// it when absent. On return l carries the stored id and quantity.
	Upsert(ctx context.Context, l *Line) error
	// SetQuantity overwrites the quantity, deleting the line when qty <= 0.
	// It reports false when the line does not belong to the session.
	SetQuantity(ctx context.Context, sessionKey, lineID string, qty int) (bool, error)
	Remove(ctx context.Context, sessionKey, lineID string) (bool, error)
	List(ctx context.Context, sessionKey string) ([]Line, error)
	Clear(ctx context.Context, sessionKey string, lineIDs []string) error
}

// BuyNowStore keeps the per-session buy-now product reference.
type BuyNowStore interface {
	Set(ctx context.Context, sessionKey, productID string) error
	Get(ctx context.Context, sessionKey string) (string, bool, error)
	Clear(ctx context.Context, sessionKey string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Upsert relies on the UNIQUE (session_key, product_id, size) constraint so
// concurrent adds for the same line increment a single row.
func (r *PGRepo) Upsert(ctx context.Context, l *Line) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (id, session_key, product_id, size, quantity, added_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		ON CONFLICT (session_key, product_id, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity, added_at
	`, l.ID, l.SessionKey, l.ProductID, sizeArg(l.Size), l.Quantity).Scan(&l.ID, &l.Quantity, &l.AddedAt)
	return errors.Wrap(err, "upsert cart item")
}

func (r *PGRepo) SetQuantity(ctx context.Context, sessionKey, lineID string, qty int) (bool, error) {
	if qty <= 0 {
		return r.Remove(ctx, sessionKey, lineID)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE cart_items SET quantity = $3
		WHERE id = $1 AND session_key = $2
	`, lineID, sessionKey, qty)
	if err != nil {
		return false, errors.Wrap(err, "update cart item")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) Remove(ctx context.Context, sessionKey, lineID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND session_key = $2`, lineID, sessionKey)
	if err != nil {
		return false, errors.Wrap(err, "delete cart item")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) List(ctx context.Context, sessionKey string) ([]Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, session_key, product_id, size, quantity, added_at
		FROM cart_items
		WHERE session_key = $1
		ORDER BY seq
	`, sessionKey)
	if err != nil {
		return nil, errors.Wrap(err, "list cart items")
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var (
			l    Line
			size string
		)
		if err := rows.Scan(&l.ID, &l.SessionKey, &l.ProductID, &size, &l.Quantity, &l.AddedAt); err != nil {
			return nil, err
		}
		if size != "" {
			l.Size = &size
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Clear deletes exactly the given lines. Lines added to the session after
// they were captured are left alone.
func (r *PGRepo) Clear(ctx context.Context, sessionKey string, lineIDs []string) error {
	if len(lineIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		DELETE FROM cart_items
		WHERE session_key = $1 AND id = ANY($2::uuid[])
	`, sessionKey, lineIDs)
	return errors.Wrap(err, "clear cart items")
}

// size is stored as '' when absent so it can take part in the unique key
func sizeArg(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type PGBuyNowStore struct{ db *pgxpool.Pool }

func NewPGBuyNowStore(db *pgxpool.Pool) *PGBuyNowStore { return &PGBuyNowStore{db: db} }

func (s *PGBuyNowStore) Set(ctx context.Context, sessionKey, productID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `
		INSERT INTO buy_now_refs (session_key, product_id, created_at)
		VALUES ($1,$2,NOW())
		ON CONFLICT (session_key) DO UPDATE SET product_id = EXCLUDED.product_id, created_at = NOW()
	`, sessionKey, productID)
	return errors.Wrap(err, "set buy-now reference")
}

func (s *PGBuyNowStore) Get(ctx context.Context, sessionKey string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var productID string
	err := s.db.QueryRow(ctx, `SELECT product_id FROM buy_now_refs WHERE session_key = $1`, sessionKey).Scan(&productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "get buy-now reference")
	}
	return productID, true, nil
}

func (s *PGBuyNowStore) Clear(ctx context.Context, sessionKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `DELETE FROM buy_now_refs WHERE session_key = $1`, sessionKey)
	return errors.Wrap(err, "clear buy-now reference")
}
