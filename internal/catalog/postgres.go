package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed content store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ConnectPostgres opens and verifies a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Products

const productColumns = `id, slug, name, description, price, images, in_stock, collection_ids, modified_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.Price,
		pq.Array(&p.Images), &p.InStock, pq.Array(&p.CollectionIDs), &p.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}
	return p, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) ListProductsByCollection(ctx context.Context, collectionID string) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE $1 = ANY(collection_ids) ORDER BY name ASC`,
		collectionID)
	if err != nil {
		return nil, fmt.Errorf("list products by collection: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// Collections

func (s *PostgresStore) ListCollections(ctx context.Context) ([]Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, name, description, featured_image FROM collections ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var collections []Collection
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.FeaturedImage); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (s *PostgresStore) GetCollectionBySlug(ctx context.Context, slug string) (*Collection, error) {
	var c Collection
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, name, description, featured_image FROM collections WHERE slug = $1`,
		slug).Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.FeaturedImage)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get collection %q: %w", slug, err)
	}
	return &c, nil
}

// Reviews

func (s *PostgresStore) ListReviews(ctx context.Context) ([]Review, error) {
	return s.listReviews(ctx,
		`SELECT id, product_id, customer_name, rating, review_text, verified_purchase, created_at
		 FROM reviews ORDER BY created_at DESC`)
}

func (s *PostgresStore) ListReviewsByProduct(ctx context.Context, productID string) ([]Review, error) {
	return s.listReviews(ctx,
		`SELECT id, product_id, customer_name, rating, review_text, verified_purchase, created_at
		 FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`, productID)
}

func (s *PostgresStore) listReviews(ctx context.Context, query string, args ...any) ([]Review, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.CustomerName, &r.Rating,
			&r.ReviewText, &r.VerifiedPurchase, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// Users

const userColumns = `id, email, full_name, password_hash, bio, profile_picture, status, created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash,
		&u.Bio, &u.ProfilePicture, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", id, err)
	}
	return u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, full_name, password_hash, bio, profile_picture, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.Bio, u.ProfilePicture, u.Status, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateUserProfile(ctx context.Context, id, fullName, bio string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE users SET full_name = $2, bio = $3 WHERE id = $1
		 RETURNING `+userColumns,
		id, fullName, bio)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user %q: %w", id, err)
	}
	return u, nil
}

// Orders

// CreateOrder inserts an order keyed on the processor session id. The unique
// constraint on session_id makes concurrent duplicate deliveries converge:
// exactly one insert wins, the rest report created=false.
func (s *PostgresStore) CreateOrder(ctx context.Context, o *Order) (bool, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return false, fmt.Errorf("marshal order items: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (id, order_number, session_id, payment_intent_id,
		   customer_name, customer_email, customer_phone,
		   shipping_address, shipping_city, shipping_state, shipping_zip,
		   items, total_amount, payment_status, order_status, order_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 ON CONFLICT (session_id) DO NOTHING`,
		o.ID, o.OrderNumber, o.SessionID, o.PaymentIntentID,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.ShippingAddress, o.ShippingCity, o.ShippingState, o.ShippingZip,
		items, o.TotalAmount, o.PaymentStatus, o.OrderStatus, o.OrderDate)
	if err != nil {
		return false, fmt.Errorf("create order: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create order: %w", err)
	}
	return n > 0, nil
}

const orderColumns = `id, order_number, session_id, payment_intent_id,
	customer_name, customer_email, customer_phone,
	shipping_address, shipping_city, shipping_state, shipping_zip,
	items, total_amount, payment_status, order_status, order_date`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var items []byte
	err := row.Scan(&o.ID, &o.OrderNumber, &o.SessionID, &o.PaymentIntentID,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingState, &o.ShippingZip,
		&items, &o.TotalAmount, &o.PaymentStatus, &o.OrderStatus, &o.OrderDate)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &o, nil
}

func (s *PostgresStore) GetOrderBySessionID(ctx context.Context, sessionID string) (*Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE session_id = $1`, sessionID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order for session %q: %w", sessionID, err)
	}
	return o, nil
}

func (s *PostgresStore) ListOrdersByEmail(ctx context.Context, email string) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_email = $1 ORDER BY order_date DESC`,
		email)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// Contact submissions

func (s *PostgresStore) CreateContactSubmission(ctx context.Context, sub *ContactSubmission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, name, email, subject, message, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.Name, sub.Email, sub.Subject, sub.Message, sub.Status, sub.SubmittedAt)
	if err != nil {
		return fmt.Errorf("create contact submission: %w", err)
	}
	return nil
}
