package entries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymlogger/internal/telemetry/tracing"
	"github.com/2beens/gymlogger/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrNotFound    = errors.New("entry not found")
	ErrDuplicateID = errors.New("entry id already exists")
)

type Repo struct {
	db *pgxpool.Pool
	// ability to inject id generation (for tests)
	NewIDFunc func() string
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db:        db,
		NewIDFunc: uuid.NewString,
	}
}

// Add stores the entry under a fresh id and returns that id.
func (r *Repo) Add(ctx context.Context, userID string, entry Entry) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("type", entry.Kind().String()))

	data, err := json.Marshal(entry.Details)
	if err != nil {
		return "", fmt.Errorf("marshal details: %w", err)
	}

	id := r.NewIDFunc()
	if _, err := r.db.Exec(ctx, `
		INSERT INTO gymlogger_entry (id, user_id, type, date, timestamp, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		id,
		userID,
		entry.Kind().String(),
		entry.Date,
		entry.Timestamp,
		data,
	); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return "", ErrDuplicateID
		}
		return "", err
	}

	return id, nil
}

// List returns the user's entries of the given kind, newest first.
func (r *Repo) List(ctx context.Context, userID string, kind Kind) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("type", kind.String()))

	rows, err := r.db.Query(ctx, `
		SELECT id::text, to_char(date, 'YYYY-MM-DD'), timestamp, data
		FROM gymlogger_entry
		WHERE user_id = $1 AND type = $2
		ORDER BY timestamp DESC
	`, userID, kind.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			entry     Entry
			timestamp time.Time
			data      []byte
		)
		if err := rows.Scan(&entry.ID, &entry.Date, &timestamp, &data); err != nil {
			return nil, err
		}
		entry.Timestamp = timestamp.UTC()

		details, err := NewDetails(kind)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, details); err != nil {
			return nil, fmt.Errorf("unmarshal entry %s details: %w", entry.ID, err)
		}
		entry.Details = details

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repo) Delete(ctx context.Context, userID, entryID string) (_ Kind, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.delete")
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if _, err := uuid.Parse(entryID); err != nil {
		return "", ErrNotFound
	}

	var kind string
	err = r.db.QueryRow(ctx, `
		DELETE FROM gymlogger_entry
		WHERE id = $1 AND user_id = $2
		RETURNING type
	`, entryID, userID).Scan(&kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pkg.IsInvalidTextRepresentationError(err) {
			return "", ErrNotFound
		}
		return "", err
	}

	return Kind(kind), nil
}
