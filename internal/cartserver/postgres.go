package cartserver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/LISSConsulting/storefront/internal/session"
)

// Schema creates the cart_lines table. position keeps insertion order.
const Schema = `CREATE TABLE IF NOT EXISTS cart_lines (
	product_id BIGINT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	price      DOUBLE PRECISION NOT NULL DEFAULT 0,
	image      TEXT NOT NULL DEFAULT '',
	quantity   INTEGER NOT NULL CHECK (quantity > 0),
	position   BIGSERIAL
)`

// Postgres is a Repository backed by a cart_lines table.
type Postgres struct {
	DB *sql.DB
}

// OpenPostgres connects to dsn, verifies the connection and ensures the
// schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("cartserver: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cartserver: ping postgres: %w", err)
	}
	p := &Postgres{DB: db}
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// Migrate applies Schema.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("cartserver: migrate: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (p *Postgres) Close() error { return p.DB.Close() }

func (p *Postgres) List(ctx context.Context) ([]session.CartLine, error) {
	rows, err := p.DB.QueryContext(ctx,
		`SELECT product_id, title, price, image, quantity FROM cart_lines ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("cartserver: list lines: %w", err)
	}
	defer rows.Close()

	lines := []session.CartLine{}
	for rows.Next() {
		var l session.CartLine
		if err := rows.Scan(&l.ID, &l.Title, &l.Price, &l.Image, &l.Quantity); err != nil {
			return nil, fmt.Errorf("cartserver: scan line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cartserver: list lines: %w", err)
	}
	return lines, nil
}

func (p *Postgres) Add(ctx context.Context, line session.CartLine) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO cart_lines (product_id, title, price, image, quantity) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
	`, int64(line.ID), line.Title, line.Price, line.Image, line.Quantity)
	if err != nil {
		return fmt.Errorf("cartserver: add line: %w", err)
	}
	return nil
}

func (p *Postgres) SetQuantity(ctx context.Context, id session.ProductID, quantity int) error {
	res, err := p.DB.ExecContext(ctx,
		`UPDATE cart_lines SET quantity = $1 WHERE product_id = $2`, quantity, int64(id))
	if err != nil {
		return fmt.Errorf("cartserver: set quantity: %w", err)
	}
	return requireAffected(res)
}

func (p *Postgres) Remove(ctx context.Context, id session.ProductID) error {
	res, err := p.DB.ExecContext(ctx, `DELETE FROM cart_lines WHERE product_id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("cartserver: remove line: %w", err)
	}
	return requireAffected(res)
}

func (p *Postgres) Clear(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, `DELETE FROM cart_lines`); err != nil {
		return fmt.Errorf("cartserver: clear: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("cartserver: rows affected: %w", err)
	}
	if n == 0 {
		return ErrLineNotFound
	}
	return nil
}
