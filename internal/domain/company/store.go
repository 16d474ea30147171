package company

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/platform/db"
)

var (
	ErrNotFound       = errors.New("company not found")
	ErrDuplicateCode  = errors.New("company code already registered")
	ErrDuplicateEmail = errors.New("company email already registered")
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) Create(ctx context.Context, name, code, email, passwordHash string) (Company, error) {
	var c Company
	err := s.DB.QueryRow(ctx, `
		INSERT INTO companies (name, code, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, code, email, created_at
	`, name, strings.ToUpper(code), strings.ToLower(email), passwordHash).Scan(
		&c.ID, &c.Name, &c.Code, &c.Email, &c.CreatedAt,
	)
	if err != nil {
		return Company{}, mapUniqueViolation(err)
	}
	return c, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (Company, string, error) {
	var (
		c    Company
		hash string
	)
	err := s.DB.QueryRow(ctx, `
		SELECT id, name, code, email, password_hash, created_at
		FROM companies
		WHERE email = $1
	`, strings.ToLower(email)).Scan(&c.ID, &c.Name, &c.Code, &c.Email, &hash, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, "", ErrNotFound
	}
	if err != nil {
		return Company{}, "", err
	}
	return c, hash, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (Company, error) {
	var c Company
	err := s.DB.QueryRow(ctx, `
		SELECT id, name, code, email, created_at
		FROM companies
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Code, &c.Email, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	if err != nil {
		return Company{}, err
	}
	return c, nil
}

func (s *Store) CodeByID(ctx context.Context, id string) (string, error) {
	var code string
	err := s.DB.QueryRow(ctx, `SELECT code FROM companies WHERE id = $1`, id).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return code, err
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "code"):
			return ErrDuplicateCode
		case strings.Contains(pgErr.ConstraintName, "email"):
			return ErrDuplicateEmail
		}
	}
	return err
}
