package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportLog represents a single import operation's outcome.
type ImportLog struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	Status           string    `json:"status"`
	WorkoutsReceived int       `json:"workouts_received"`
	WorkoutsInserted int       `json:"workouts_inserted"`
	SetsInserted     int       `json:"sets_inserted"`
	RowErrors        int       `json:"row_errors"`
	DurationMs       int64     `json:"duration_ms"`
	ErrorMessage     string    `json:"error_message,omitempty"`
}

// InsertImportLog records an import and returns its id.
func (s *Store) InsertImportLog(ctx context.Context, log ImportLog) (string, error) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = s.now().UTC()
	}
	if err := s.putJSON(ctx, colImportLogs, log.ID, log.CreatedAt, log); err != nil {
		return "", fmt.Errorf("inserting import log: %w", err)
	}
	return log.ID, nil
}

// ImportLogs returns recent import logs, newest first. limit <= 0 returns all.
func (s *Store) ImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	docs, err := s.b.list(ctx, colImportLogs)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	logs := make([]ImportLog, 0, len(docs))
	for _, doc := range docs {
		var l ImportLog
		if err := json.Unmarshal(doc.Body, &l); err != nil {
			return nil, fmt.Errorf("decoding import log %s: %w", doc.ID, err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
