package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

// Seed provisions a development company with an admin login. It is
// idempotent so restarts never duplicate the seed rows.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedCompanyName == "" || cfg.SeedCompanyCode == "" {
		return nil
	}

	companyID, err := ensureCompany(ctx, pool, cfg)
	if err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		return ensureAdminUser(ctx, pool, companyID, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	}
	return nil
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies WHERE code = $1", cfg.SeedCompanyCode).Scan(&id)
	if err == nil {
		return id, nil
	}

	hash, err := auth.HashPassword(cfg.SeedCompanyPass)
	if err != nil {
		return "", err
	}
	err = pool.QueryRow(ctx, `
		INSERT INTO companies (name, code, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, cfg.SeedCompanyName, cfg.SeedCompanyCode, cfg.SeedCompanyEmail, hash).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, companyID, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE company_id = $1 AND email = $2", companyID, email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO users (company_id, login_id, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, companyID, "admin:"+email, email, hash, auth.RoleAdmin, auth.UserStatusActive)
	return err
}
