// Package repository implements data persistence for signature requests.
// Repositories support both PostgreSQL and MySQL. Every state transition is a
// conditional UPDATE keyed by token so that concurrent viewers and completers
// racing on the same request can never produce a regressed status or a
// duplicated audit entry.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pulsecrm/esign/internal/database"
	apperrors "github.com/pulsecrm/esign/internal/errors"
	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
)

// PostgreSQLSignatureRequestRepository implements SignatureRequest persistence for PostgreSQL.
type PostgreSQLSignatureRequestRepository struct {
	db *sql.DB
}

// Create inserts a new signature request into the PostgreSQL database.
func (p *PostgreSQLSignatureRequestRepository) Create(
	ctx context.Context,
	request *signatureDomain.SignatureRequest,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO signature_requests
			  (id, token, document_id, document_name, document_url, document_sha256,
			   signer_name, signer_email, requested_by, requested_at, expires_at,
			   status, signature, signed_at, ip_address)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := querier.ExecContext(
		ctx,
		query,
		request.ID,
		request.Token,
		request.DocumentID,
		request.DocumentName,
		request.DocumentURL,
		request.DocumentSHA256,
		request.SignerName,
		request.SignerEmail,
		request.RequestedBy,
		request.RequestedAt,
		request.ExpiresAt,
		string(request.Status),
		request.Signature,
		request.SignedAt,
		request.IPAddress,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create signature request")
	}
	return nil
}

// GetByToken retrieves a signature request and its ordered audit trail by token.
func (p *PostgreSQLSignatureRequestRepository) GetByToken(
	ctx context.Context,
	token string,
) (*signatureDomain.SignatureRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token, document_id, document_name, document_url, document_sha256,
			  signer_name, signer_email, requested_by, requested_at, expires_at,
			  status, signature, signed_at, ip_address
			  FROM signature_requests
			  WHERE token = $1`

	var request signatureDomain.SignatureRequest
	var status string
	var signedAt sql.NullTime

	err := querier.QueryRowContext(ctx, query, token).Scan(
		&request.ID,
		&request.Token,
		&request.DocumentID,
		&request.DocumentName,
		&request.DocumentURL,
		&request.DocumentSHA256,
		&request.SignerName,
		&request.SignerEmail,
		&request.RequestedBy,
		&request.RequestedAt,
		&request.ExpiresAt,
		&status,
		&request.Signature,
		&signedAt,
		&request.IPAddress,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, signatureDomain.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get signature request by token")
	}

	request.Status = signatureDomain.Status(status)
	if signedAt.Valid {
		request.SignedAt = &signedAt.Time
	}

	auditTrail, err := p.listAuditEntries(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	request.AuditTrail = auditTrail

	return &request, nil
}

// MarkViewed transitions a pending request to viewed. Returns true when this
// call performed the transition, false when the request was already past
// pending (repeated views are idempotent and must not duplicate audit entries).
func (p *PostgreSQLSignatureRequestRepository) MarkViewed(ctx context.Context, token string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE signature_requests
			  SET status = $1
			  WHERE token = $2 AND status = $3`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(signatureDomain.StatusViewed),
		token,
		string(signatureDomain.StatusPending),
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to mark signature request viewed")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read rows affected")
	}
	return rows == 1, nil
}

// MarkExpired persists the expired status for a request whose window has
// passed. Idempotent: a request already signed or expired is left untouched.
func (p *PostgreSQLSignatureRequestRepository) MarkExpired(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE signature_requests
			  SET status = $1
			  WHERE token = $2 AND status NOT IN ($3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		string(signatureDomain.StatusExpired),
		token,
		string(signatureDomain.StatusSigned),
		string(signatureDomain.StatusExpired),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark signature request expired")
	}
	return nil
}

// MarkSigned transitions a pending or viewed request to signed, recording the
// submitted signature, timestamp and signer IP. Returns true when this call
// won the transition; false means a concurrent completion got there first.
func (p *PostgreSQLSignatureRequestRepository) MarkSigned(
	ctx context.Context,
	token string,
	signature string,
	signedAt time.Time,
	ipAddress string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE signature_requests
			  SET status = $1, signature = $2, signed_at = $3, ip_address = $4
			  WHERE token = $5 AND status IN ($6, $7)`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(signatureDomain.StatusSigned),
		signature,
		signedAt,
		ipAddress,
		token,
		string(signatureDomain.StatusPending),
		string(signatureDomain.StatusViewed),
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to mark signature request signed")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read rows affected")
	}
	return rows == 1, nil
}

// AppendAuditEntry appends one audit entry, assigning the next position for
// the request. Positions are contiguous per request and never reused.
func (p *PostgreSQLSignatureRequestRepository) AppendAuditEntry(
	ctx context.Context,
	entry *signatureDomain.AuditEntry,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO signature_audit_entries
			  (id, request_id, position, action, ip_address, user_agent, created_at)
			  SELECT $1, $2, COALESCE(MAX(position), 0) + 1, $3, $4, $5, $6
			  FROM signature_audit_entries
			  WHERE request_id = $7`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.RequestID,
		entry.Action,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
		entry.RequestID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to append audit entry")
	}
	return nil
}

// ExpireStale marks every request whose window passed before now as expired.
// Used by the clean-expired-requests command; lazy read-time expiry otherwise
// leaves unvisited rows stale forever.
func (p *PostgreSQLSignatureRequestRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE signature_requests
			  SET status = $1
			  WHERE expires_at < $2 AND status IN ($3, $4)`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(signatureDomain.StatusExpired),
		now,
		string(signatureDomain.StatusPending),
		string(signatureDomain.StatusViewed),
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to expire stale signature requests")
	}

	return result.RowsAffected()
}

// CountStale returns how many requests ExpireStale would transition, for dry runs.
func (p *PostgreSQLSignatureRequestRepository) CountStale(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM signature_requests
			  WHERE expires_at < $1 AND status IN ($2, $3)`

	var count int64
	err := querier.QueryRowContext(
		ctx,
		query,
		now,
		string(signatureDomain.StatusPending),
		string(signatureDomain.StatusViewed),
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count stale signature requests")
	}
	return count, nil
}

// listAuditEntries loads the audit trail for a request ordered by position.
func (p *PostgreSQLSignatureRequestRepository) listAuditEntries(
	ctx context.Context,
	requestID string,
) ([]signatureDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, position, action, ip_address, user_agent, created_at
			  FROM signature_audit_entries
			  WHERE request_id = $1
			  ORDER BY position ASC`

	rows, err := querier.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]signatureDomain.AuditEntry, 0)
	for rows.Next() {
		var entry signatureDomain.AuditEntry
		err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&entry.Position,
			&entry.Action,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

// NewPostgreSQLSignatureRequestRepository creates a new PostgreSQL SignatureRequest repository instance.
func NewPostgreSQLSignatureRequestRepository(db *sql.DB) *PostgreSQLSignatureRequestRepository {
	return &PostgreSQLSignatureRequestRepository{db: db}
}
