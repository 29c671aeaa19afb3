package flow

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SaadAmawi/VocalFlow/internal/db"
)

// flowKey is the fixed storage key for the single authored flow.
// Saves overwrite the whole record, last write wins.
const flowKey = "vocalflow.flow"

// Store persists the single flow definition.
type Store interface {
	// Save validates the flow and overwrites the stored record. An invalid
	// flow is rejected with a ValidationError and nothing is written.
	Save(ctx context.Context, f *Flow) error
	// Load returns the stored flow, or nil if none has been saved.
	Load(ctx context.Context) (*Flow, error)
}

// SQLiteStore is the Store implementation backed by the vocalflow database.
type SQLiteStore struct {
	db *db.DB
}

// NewStore creates a flow store over the given database.
func NewStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

func (s *SQLiteStore) Save(ctx context.Context, f *Flow) error {
	if err := f.Validate(); err != nil {
		return err
	}

	questions, err := json.Marshal(f.Questions)
	if err != nil {
		return fmt.Errorf("marshalling questions: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO flows (key, id, title, destination_endpoint, questions, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   id = excluded.id,
		   title = excluded.title,
		   destination_endpoint = excluded.destination_endpoint,
		   questions = excluded.questions,
		   updated_at = excluded.updated_at`,
		flowKey, f.ID, f.Title, f.DestinationEndpoint, string(questions), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving flow: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Flow, error) {
	var f Flow
	var questions string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, destination_endpoint, questions FROM flows WHERE key = ?`,
		flowKey,
	).Scan(&f.ID, &f.Title, &f.DestinationEndpoint, &questions)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading flow: %w", err)
	}

	if err := json.Unmarshal([]byte(questions), &f.Questions); err != nil {
		return nil, fmt.Errorf("unmarshalling questions: %w", err)
	}
	return &f, nil
}
