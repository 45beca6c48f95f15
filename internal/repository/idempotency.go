package repository

import (
	"context"
)

type IdempotencyRow struct {
	IdempotencyKey string
	RequestHash    string
	ResponseStatus int32
	ResponseBody   []byte
	ContentType    string
	InProgress     bool
}

func (q *Queries) GetIdempotencyKey(ctx context.Context, key string) (IdempotencyRow, error) {
	var row IdempotencyRow
	query := `SELECT idempotency_key, request_hash, COALESCE(response_status, 0),
		COALESCE(response_body, ''), COALESCE(content_type, ''), in_progress
		FROM idempotency_keys WHERE idempotency_key = $1`
	err := q.db.QueryRow(ctx, query, key).Scan(
		&row.IdempotencyKey, &row.RequestHash, &row.ResponseStatus,
		&row.ResponseBody, &row.ContentType, &row.InProgress,
	)
	return row, err
}

type ReserveIdempotencyKeyParams struct {
	IdempotencyKey string
	RequestHash    string
	Method         string
	Path           string
}

// ReserveIdempotencyKey claims a key for the in-flight request. The
// conflict target makes a second caller observe pgx.ErrNoRows.
func (q *Queries) ReserveIdempotencyKey(ctx context.Context, arg ReserveIdempotencyKeyParams) (string, error) {
	var key string
	query := `INSERT INTO idempotency_keys
		(idempotency_key, request_hash, method, path, in_progress, created_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW())
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING idempotency_key`
	err := q.db.QueryRow(ctx, query, arg.IdempotencyKey, arg.RequestHash, arg.Method, arg.Path).Scan(&key)
	return key, err
}

type FinalizeIdempotencyKeyParams struct {
	ResponseStatus int32
	ResponseBody   []byte
	ContentType    string
	IdempotencyKey string
	RequestHash    string
}

func (q *Queries) FinalizeIdempotencyKey(ctx context.Context, arg FinalizeIdempotencyKeyParams) (IdempotencyRow, error) {
	var row IdempotencyRow
	query := `UPDATE idempotency_keys SET
		response_status = $1, response_body = $2, content_type = $3, in_progress = FALSE
		WHERE idempotency_key = $4 AND request_hash = $5
		RETURNING idempotency_key, request_hash, response_status, response_body, content_type, in_progress`
	err := q.db.QueryRow(ctx, query,
		arg.ResponseStatus, arg.ResponseBody, arg.ContentType, arg.IdempotencyKey, arg.RequestHash,
	).Scan(
		&row.IdempotencyKey, &row.RequestHash, &row.ResponseStatus,
		&row.ResponseBody, &row.ContentType, &row.InProgress,
	)
	return row, err
}
