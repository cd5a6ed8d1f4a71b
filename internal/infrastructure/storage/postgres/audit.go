package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "medistock/internal/core/context"
	"medistock/internal/core/id"
	"medistock/internal/domain/audit"
	"medistock/pkg/logger"
)

// CompressionAlgo specifies the compression algorithm used for a payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const auditTable = "sys_audit"

// auditRow is the storage shape of one audit entry.
type auditRow struct {
	ID                 id.ID           `db:"id"`
	Action             string          `db:"action"`
	EntityType         string          `db:"entity_type"`
	EntityID           string          `db:"entity_id"`
	UserID             string          `db:"user_id"`
	Details            json.RawMessage `db:"details"`
	DetailsCompressed  []byte          `db:"details_compressed"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo"`
	CreatedAt          time.Time       `db:"created_at"`
}

// AuditLog persists audit entries with zstd compression for large payloads.
// It implements audit.Logger: recording never fails the business operation,
// storage errors are logged and swallowed.
type AuditLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

var _ audit.Logger = (*AuditLog)(nil)

// NewAuditLog creates a new audit log.
func NewAuditLog(txManager *TxManager) (*AuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record implements audit.Logger.
func (s *AuditLog) Record(ctx context.Context, entry audit.Entry) {
	if err := s.insert(ctx, entry); err != nil {
		logger.Error(ctx, "audit record failed",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"error", err)
	}
}

func (s *AuditLog) insert(ctx context.Context, entry audit.Entry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.UserID == "" {
		entry.UserID = appctx.GetUserID(ctx)
	}

	var details json.RawMessage
	if len(entry.Details) > 0 {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		details = data
	}

	// Compress large payloads
	var compressed []byte
	algo := CompressionNone
	if len(details) > s.compressThreshold {
		compressed = s.encoder.EncodeAll(details, nil)
		details = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, action, entity_type, entity_id, user_id,
			details, details_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, string(entry.Action), entry.EntityType, entry.EntityID, entry.UserID,
		details, compressed, algo, entry.CreatedAt,
	)
	return err
}

// GetEntityHistory retrieves audit history for an entity, newest first.
func (s *AuditLog) GetEntityHistory(ctx context.Context, entityType, entityID string, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	sql := `
		SELECT id, action, entity_type, entity_id, user_id,
			   details, details_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var r auditRow
		err := rows.Scan(
			&r.ID, &r.Action, &r.EntityType, &r.EntityID, &r.UserID,
			&r.Details, &r.DetailsCompressed, &r.CompressionAlgo, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if r.CompressionAlgo == CompressionZstd && len(r.DetailsCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(r.DetailsCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress details: %w", err)
			}
			r.Details = decompressed
		}

		e := audit.Entry{
			ID:         r.ID,
			Action:     audit.Action(r.Action),
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			UserID:     r.UserID,
			CreatedAt:  r.CreatedAt,
		}
		if len(r.Details) > 0 {
			if err := json.Unmarshal(r.Details, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal details: %w", err)
			}
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
