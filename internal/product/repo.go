// Package product provides the catalog model, its PostgreSQL repository and
// the HTTP client other services use to look products up.
package product

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("product not found")
)

// Catalog resolves a product id to its current price and availability.
type Catalog interface {
	Lookup(ctx context.Context, id string) (*Product, error)
}

type Query struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectProduct = `
	SELECT id, name, description, category, price::text, offer_price::text,
	       is_on_offer, available, created_at, updated_at
	FROM products`

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO products (id, name, description, category, price, offer_price, is_on_offer, available, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Category, p.Price.String(), decimalArg(p.OfferPrice), p.OnOffer, p.Available,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return errors.Wrap(err, "insert product")
}

// validID keeps malformed ids away from the UUID column; they cannot name a
// product, so callers see ErrNotFound instead of a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, selectProduct+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select product")
	}
	return p, nil
}

// Lookup satisfies Catalog for callers sharing the catalog database.
func (r *PGRepo) Lookup(ctx context.Context, id string) (*Product, error) {
	return r.GetByID(ctx, id)
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, selectProduct+`
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%' OR category ILIKE '%'||$1||'%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	if !validID(p.ID) {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2,
		    description = $3,
		    category = $4,
		    price = $5,
		    offer_price = $6,
		    is_on_offer = $7,
		    available = $8,
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Category, p.Price.String(), decimalArg(p.OfferPrice), p.OnOffer, p.Available)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete product")
	}
	return cmd.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p     Product
		price string
		offer *string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &price, &offer,
		&p.OnOffer, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, errors.Wrapf(err, "product %s price", p.ID)
	}
	p.Price = d
	if offer != nil {
		o, err := decimal.NewFromString(*offer)
		if err != nil {
			return nil, errors.Wrapf(err, "product %s offer price", p.ID)
		}
		p.OfferPrice = &o
	}
	return &p, nil
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// OfferRepository stores storefront banners.
type OfferRepository interface {
	CreateOffer(ctx context.Context, o *Offer) error
	// ListLive returns active offers whose window contains now, newest first.
	ListLive(ctx context.Context, now time.Time) ([]Offer, error)
	DeleteOffer(ctx context.Context, id string) (bool, error)
}

type PGOfferRepo struct{ db *pgxpool.Pool }

func NewPGOfferRepo(db *pgxpool.Pool) *PGOfferRepo { return &PGOfferRepo{db: db} }

func (r *PGOfferRepo) CreateOffer(ctx context.Context, o *Offer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO offer_ads (id, title, subtitle, position, is_active, start_date, end_date, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING created_at
	`, o.ID, o.Title, o.Subtitle, o.Position, o.Active, o.StartDate, o.EndDate).Scan(&o.CreatedAt)
	return errors.Wrap(err, "insert offer")
}

func (r *PGOfferRepo) ListLive(ctx context.Context, now time.Time) ([]Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, title, subtitle, position, is_active, start_date, end_date, created_at
		FROM offer_ads
		WHERE is_active AND start_date <= $1 AND end_date >= $1
		ORDER BY created_at DESC
	`, now)
	if err != nil {
		return nil, errors.Wrap(err, "list offers")
	}
	defer rows.Close()

	out := []Offer{}
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.Title, &o.Subtitle, &o.Position, &o.Active,
			&o.StartDate, &o.EndDate, &o.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan offer")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGOfferRepo) DeleteOffer(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM offer_ads WHERE id=$1`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete offer")
	}
	return cmd.RowsAffected() > 0, nil
}
