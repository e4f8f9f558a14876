package order

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Claim names the checkout source an order is built from: the captured
// cart line ids, or the session's buy-now product.
type Claim struct {
	SessionKey      string
	LineIDs         []string
	BuyNowProductID string
}

type Repository interface {
	// Create stores the order and its items and consumes the claimed source,
	// all in one transaction. A source that is already gone, fully or in
	// part, rolls everything back with ErrNothingToCheckout.
	Create(ctx context.Context, o *Order, items []Item, claim Claim) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	ListByIDs(ctx context.Context, ids []string) ([]Order, error)
	GetItems(ctx context.Context, orderID string) ([]Item, error)
	// Save writes t.Order only if the stored status still equals t.From.
	Save(ctx context.Context, t Transition) (bool, error)
	// SaveAll applies Save to every transition in one transaction and
	// returns how many rows matched their guard.
	SaveAll(ctx context.Context, ts []Transition) (int, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectOrder = `
	SELECT id, user_id, name, email, address, created_at, updated_at,
	       order_status, total::text, payment_method, payment_status, paid, payment_details,
	       crypto_type, crypto_wallet, crypto_txn, upi_app, upi_txn,
	       refund_status, return_reason, exchange_reason, exchange_product
	FROM orders`

func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item, claim Claim) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin checkout tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cType, cWallet, cTxn, uApp, uTxn *string
	if o.Crypto != nil {
		cType, cWallet, cTxn = &o.Crypto.Type, &o.Crypto.Wallet, &o.Crypto.TxnID
	}
	if o.UPI != nil {
		uApp, uTxn = &o.UPI.App, &o.UPI.TxnID
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, name, email, address, created_at, updated_at,
		                    order_status, total, payment_method, payment_status, paid, payment_details,
		                    crypto_type, crypto_wallet, crypto_txn, upi_app, upi_txn,
		                    refund_status, return_reason, exchange_reason, exchange_product)
		VALUES ($1,$2,$3,$4,$5,$6,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,'','','')
	`, o.ID, o.UserID, o.Name, o.Email, o.Address, o.CreatedAt,
		o.Status, o.Total.String(), o.PaymentMethod, o.PaymentStatus, o.Paid, o.PaymentDetails,
		cType, cWallet, cTxn, uApp, uTxn, o.RefundStatus); err != nil {
		return errors.Wrap(err, "insert order")
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price, size)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, it.ID, o.ID, it.ProductID, it.Quantity, it.Price.String(), it.Size); err != nil {
			return errors.Wrap(err, "insert order item")
		}
	}
	if err := consume(ctx, tx, claim); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "commit checkout tx")
}

// consume deletes the claimed source inside the order transaction. The row
// locks make a concurrent checkout of the same lines wait, then match
// nothing.
func consume(ctx context.Context, tx pgx.Tx, c Claim) error {
	var (
		tag  pgconn.CommandTag
		err  error
		want int64
	)
	if c.BuyNowProductID != "" {
		want = 1
		tag, err = tx.Exec(ctx, `
			DELETE FROM buy_now_refs WHERE session_key = $1 AND product_id = $2
		`, c.SessionKey, c.BuyNowProductID)
	} else {
		want = int64(len(c.LineIDs))
		tag, err = tx.Exec(ctx, `
			DELETE FROM cart_items WHERE session_key = $1 AND id = ANY($2::uuid[])
		`, c.SessionKey, c.LineIDs)
	}
	if err != nil {
		return errors.Wrap(err, "consume checkout source")
	}
	if want == 0 || tag.RowsAffected() != want {
		return ErrNothingToCheckout
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, selectOrder+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "select order")
	}
	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectOrder+`
		WHERE user_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return collectOrders(rows)
}

func (r *PGRepo) ListByIDs(ctx context.Context, ids []string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectOrder+` WHERE id = ANY($1::uuid[]) ORDER BY created_at`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by id")
	}
	return collectOrders(rows)
}

func (r *PGRepo) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price::text, size
		FROM order_items
		WHERE order_id = $1
		ORDER BY seq
	`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "list order items")
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it    Item
			price string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &price, &it.Size); err != nil {
			return nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, errors.Wrapf(err, "order item %s price", it.ID)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *PGRepo) Save(ctx context.Context, t Transition) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return save(ctx, r.db, t)
}

func (r *PGRepo) SaveAll(ctx context.Context, ts []Transition) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, errors.Wrap(err, "begin bulk tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n := 0
	for _, t := range ts {
		ok, err := save(ctx, tx, t)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "commit bulk tx")
	}
	return n, nil
}

func save(ctx context.Context, db execer, t Transition) (bool, error) {
	o := t.Order
	tag, err := db.Exec(ctx, `
		UPDATE orders
		SET order_status = $3,
		    paid = $4,
		    payment_status = $5,
		    refund_status = $6,
		    return_reason = $7,
		    exchange_reason = $8,
		    exchange_product = $9,
		    updated_at = $10
		WHERE id = $1 AND order_status = $2
	`, o.ID, t.From, o.Status, o.Paid, o.PaymentStatus, o.RefundStatus,
		o.ReturnReason, o.ExchangeReason, o.ExchangeProduct, o.UpdatedAt)
	if err != nil {
		return false, errors.Wrapf(err, "update order %s", o.ID)
	}
	return tag.RowsAffected() == 1, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o                    Order
		total                string
		cType, cWallet, cTxn *string
		uApp, uTxn           *string
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.Name, &o.Email, &o.Address, &o.CreatedAt, &o.UpdatedAt,
		&o.Status, &total, &o.PaymentMethod, &o.PaymentStatus, &o.Paid, &o.PaymentDetails,
		&cType, &cWallet, &cTxn, &uApp, &uTxn,
		&o.RefundStatus, &o.ReturnReason, &o.ExchangeReason, &o.ExchangeProduct); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, errors.Wrapf(err, "order %s total", o.ID)
	}
	o.Total = d
	if cType != nil || cWallet != nil || cTxn != nil {
		o.Crypto = &CryptoDetails{Type: deref(cType), Wallet: deref(cWallet), TxnID: deref(cTxn)}
	}
	if uApp != nil || uTxn != nil {
		o.UPI = &UPIDetails{App: deref(uApp), TxnID: deref(uTxn)}
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
