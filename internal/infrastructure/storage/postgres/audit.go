package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"frontuser/internal/core/apperror"
	"frontuser/internal/core/id"
	"frontuser/internal/domain/auth"
)

// CompressionAlgo specifies how event details are stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const authEventsTable = "authentication_events"

// DefaultCompressThreshold is the details size above which payloads are
// stored zstd-compressed.
const DefaultCompressThreshold = 4 * 1024

// authEventRow is the stored shape of auth.Event.
type authEventRow struct {
	ID                id.ID           `db:"id"`
	EventType         string          `db:"event_type"`
	AccountID         *id.ID          `db:"account_id"`
	Identifier        string          `db:"identifier"`
	Provider          string          `db:"provider"`
	Details           json.RawMessage `db:"details"`
	DetailsCompressed []byte          `db:"details_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	OccurredAt        time.Time       `db:"occurred_at"`
}

// AuthEventLog is the PostgreSQL-backed authentication audit trail.
type AuthEventLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
	builder           squirrel.StatementBuilderType
}

// NewAuthEventLog creates an audit trail writing through txManager.
func NewAuthEventLog(txManager *TxManager) (*AuthEventLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuthEventLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
		builder:           squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Record inserts ev.
func (l *AuthEventLog) Record(ctx context.Context, ev auth.Event) error {
	row, err := l.toRow(ev)
	if err != nil {
		return err
	}

	query, args, err := l.builder.Insert(authEventsTable).
		Columns("id", "event_type", "account_id", "identifier", "provider",
			"details", "details_compressed", "compression_algo", "occurred_at").
		Values(row.ID, row.EventType, row.AccountID, row.Identifier, row.Provider,
			row.Details, row.DetailsCompressed, row.CompressionAlgo, row.OccurredAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := l.txManager.GetQuerier(ctx).Exec(ctx, query, args...); err != nil {
		return apperror.NewDatabase("record authentication event", err)
	}
	return nil
}

// History returns the newest events recorded for identifier, newest first.
func (l *AuthEventLog) History(ctx context.Context, identifier string, limit int) ([]auth.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := l.builder.
		Select("id", "event_type", "account_id", "identifier", "provider",
			"details", "details_compressed", "compression_algo", "occurred_at").
		From(authEventsTable).
		Where(squirrel.Eq{"identifier": identifier}).
		OrderBy("occurred_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []authEventRow
	if err := pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, apperror.NewDatabase("load authentication events", err)
	}

	events := make([]auth.Event, 0, len(rows))
	for _, row := range rows {
		ev, err := l.fromRow(row)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Close releases the zstd codecs.
func (l *AuthEventLog) Close() {
	_ = l.encoder.Close()
	l.decoder.Close()
}

func (l *AuthEventLog) toRow(ev auth.Event) (authEventRow, error) {
	row := authEventRow{
		ID:              ev.ID,
		EventType:       string(ev.Type),
		AccountID:       ev.AccountID,
		Identifier:      ev.Identifier,
		Provider:        ev.Provider,
		CompressionAlgo: CompressionNone,
		OccurredAt:      ev.OccurredAt,
	}
	if id.IsNil(row.ID) {
		row.ID = id.New()
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = time.Now().UTC()
	}

	if len(ev.Details) == 0 {
		return row, nil
	}

	details, err := json.Marshal(ev.Details)
	if err != nil {
		return row, fmt.Errorf("marshal event details: %w", err)
	}

	if len(details) > l.compressThreshold {
		row.DetailsCompressed = l.encoder.EncodeAll(details, nil)
		row.CompressionAlgo = CompressionZstd
		return row, nil
	}
	row.Details = details
	return row, nil
}

func (l *AuthEventLog) fromRow(row authEventRow) (auth.Event, error) {
	ev := auth.Event{
		ID:         row.ID,
		Type:       auth.EventType(row.EventType),
		AccountID:  row.AccountID,
		Identifier: row.Identifier,
		Provider:   row.Provider,
		OccurredAt: row.OccurredAt,
	}

	details := row.Details
	if row.CompressionAlgo == CompressionZstd && len(row.DetailsCompressed) > 0 {
		decompressed, err := l.decoder.DecodeAll(row.DetailsCompressed, nil)
		if err != nil {
			return ev, fmt.Errorf("decompress event details: %w", err)
		}
		details = decompressed
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &ev.Details); err != nil {
			return ev, fmt.Errorf("unmarshal event details: %w", err)
		}
	}
	return ev, nil
}
