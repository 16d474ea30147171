package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrms/internal/platform/db"
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

// IdempotencyStore persists responses of replay-sensitive mutations,
// keyed per company. A replay with the same key and payload returns
// the stored response; the same key with a different payload is a
// conflict.
type IdempotencyStore struct {
	db db.Querier
}

func NewIdempotencyStore(q db.Querier) *IdempotencyStore {
	return &IdempotencyStore{db: q}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) Check(ctx context.Context, companyID, key, requestHash string) (json.RawMessage, int, bool, error) {
	if s == nil || s.db == nil {
		return nil, 0, false, nil
	}
	var storedHash string
	var statusCode int
	var stored json.RawMessage
	err := s.db.QueryRow(ctx, `
		SELECT request_hash, status_code, response_body
		FROM idempotency_keys
		WHERE company_id = $1 AND key = $2
	`, companyID, key).Scan(&storedHash, &statusCode, &stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	if storedHash != requestHash {
		return nil, 0, false, ErrIdempotencyConflict
	}
	return stored, statusCode, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, companyID, key, requestHash string, statusCode int, response json.RawMessage) error {
	if s == nil || s.db == nil {
		return nil
	}
	tag, err := s.db.Exec(ctx, `
		INSERT INTO idempotency_keys (company_id, key, request_hash, status_code, response_body)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, key)
		DO UPDATE SET response_body = EXCLUDED.response_body, status_code = EXCLUDED.status_code
		WHERE idempotency_keys.request_hash = EXCLUDED.request_hash
	`, companyID, key, requestHash, statusCode, response)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}
