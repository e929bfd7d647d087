package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pulsecrm/esign/internal/database"
	apperrors "github.com/pulsecrm/esign/internal/errors"
	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
)

// MySQLSignatureRequestRepository implements SignatureRequest persistence for MySQL.
type MySQLSignatureRequestRepository struct {
	db *sql.DB
}

// Create inserts a new signature request into the MySQL database.
func (m *MySQLSignatureRequestRepository) Create(
	ctx context.Context,
	request *signatureDomain.SignatureRequest,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO signature_requests
			  (id, token, document_id, document_name, document_url, document_sha256,
			   signer_name, signer_email, requested_by, requested_at, expires_at,
			   status, signature, signed_at, ip_address)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

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
func (m *MySQLSignatureRequestRepository) GetByToken(
	ctx context.Context,
	token string,
) (*signatureDomain.SignatureRequest, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token, document_id, document_name, document_url, document_sha256,
			  signer_name, signer_email, requested_by, requested_at, expires_at,
			  status, signature, signed_at, ip_address
			  FROM signature_requests
			  WHERE token = ?`

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

	auditTrail, err := m.listAuditEntries(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	request.AuditTrail = auditTrail

	return &request, nil
}

// MarkViewed transitions a pending request to viewed. Returns true when this
// call performed the transition, false when the request was already past
// pending.
func (m *MySQLSignatureRequestRepository) MarkViewed(ctx context.Context, token string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE signature_requests
			  SET status = ?
			  WHERE token = ? AND status = ?`

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
func (m *MySQLSignatureRequestRepository) MarkExpired(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE signature_requests
			  SET status = ?
			  WHERE token = ? AND status NOT IN (?, ?)`

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
func (m *MySQLSignatureRequestRepository) MarkSigned(
	ctx context.Context,
	token string,
	signature string,
	signedAt time.Time,
	ipAddress string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE signature_requests
			  SET status = ?, signature = ?, signed_at = ?, ip_address = ?
			  WHERE token = ? AND status IN (?, ?)`

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
// the request.
func (m *MySQLSignatureRequestRepository) AppendAuditEntry(
	ctx context.Context,
	entry *signatureDomain.AuditEntry,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO signature_audit_entries
			  (id, request_id, position, action, ip_address, user_agent, created_at)
			  SELECT ?, ?, COALESCE(MAX(position), 0) + 1, ?, ?, ?, ?
			  FROM signature_audit_entries
			  WHERE request_id = ?`

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
func (m *MySQLSignatureRequestRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE signature_requests
			  SET status = ?
			  WHERE expires_at < ? AND status IN (?, ?)`

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
func (m *MySQLSignatureRequestRepository) CountStale(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM signature_requests
			  WHERE expires_at < ? AND status IN (?, ?)`

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
func (m *MySQLSignatureRequestRepository) listAuditEntries(
	ctx context.Context,
	requestID string,
) ([]signatureDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, position, action, ip_address, user_agent, created_at
			  FROM signature_audit_entries
			  WHERE request_id = ?
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

// NewMySQLSignatureRequestRepository creates a new MySQL SignatureRequest repository instance.
func NewMySQLSignatureRequestRepository(db *sql.DB) *MySQLSignatureRequestRepository {
	return &MySQLSignatureRequestRepository{db: db}
}
