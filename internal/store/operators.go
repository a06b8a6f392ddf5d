package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// Operator is an admin-API account, not a drawing participant.
type Operator struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// normEmail trims and lowercases the email (needed if DB col isnt citext)
func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// CreateOperator inserts a new operator with a hashed password
func (p *Postgres) CreateOperator(ctx context.Context, email, password string) (Operator, error) {
	email = normEmail(email)
	if email == "" || password == "" {
		return Operator{}, errors.New("missing email or password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Operator{}, err
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO operators (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, created_at
	`, email, string(hash))

	var o Operator
	if err := row.Scan(&o.ID, &o.Email, &o.CreatedAt); err != nil {
		return Operator{}, err
	}
	return o, nil
}

// GetOperatorByEmail returns the operator + hashed password for login verification
func (p *Postgres) GetOperatorByEmail(ctx context.Context, email string) (Operator, string, error) {
	email = normEmail(email)

	row := p.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM operators
		WHERE email = $1
	`, email)

	var o Operator
	var hash string
	if err := row.Scan(&o.ID, &o.Email, &hash, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Operator{}, "", errors.New("not found")
		}
		return Operator{}, "", err
	}
	return o, hash, nil
}

// VerifyOperator checks email + password match
func (p *Postgres) VerifyOperator(ctx context.Context, email, password string) (Operator, error) {
	o, hash, err := p.GetOperatorByEmail(ctx, email)
	if err != nil {
		return Operator{}, errors.New("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Operator{}, errors.New("invalid credentials")
	}

	return o, nil
}
