// README: Clickstream event store backed by PostgreSQL.
package analytics

import (
    "context"
    "encoding/json"

    "github.com/jackc/pgx/v5/pgxpool"
)

// EventStore is where flushed events land. The production implementation is
// the Postgres store; tests substitute a recording double.
type EventStore interface {
    InsertEvents(ctx context.Context, events []Event) error
}

type Store struct {
    db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
    return &Store{db: db}
}

func (s *Store) InsertEvents(ctx context.Context, events []Event) error {
    for _, e := range events {
        metadata := []byte("{}")
        if e.Metadata != nil {
            b, err := json.Marshal(e.Metadata)
            if err != nil {
                return err
            }
            metadata = b
        }
        _, err := s.db.Exec(ctx, `
            INSERT INTO clickstream_events (
                event_id, event_name, session_id, event_time, event_metadata
            ) VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (event_id) DO NOTHING`,
            e.ID,
            e.Name,
            string(e.SessionID),
            e.Time,
            metadata,
        )
        if err != nil {
            return err
        }
    }
    return nil
}
