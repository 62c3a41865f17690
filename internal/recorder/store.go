package recorder

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// sqlStore holds the statements shared by the SQL backends. Placeholders are
// rebound to the driver's syntax by sqlx.
type sqlStore struct {
	db *sqlx.DB
	mu sync.Mutex
}

func (s *sqlStore) migrate(stmts []string) error {
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *sqlStore) RecordLookup(evt *LookupEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	_, err := s.db.NamedExec(`INSERT INTO lookups
		(id, timestamp, source, provider, symbol, start_date, end_date, bars,
		 cagr_1y, cagr_3y, cagr_5y, volatility, error_text)
		VALUES (:id, :timestamp, :source, :provider, :symbol, :start_date, :end_date, :bars,
		 :cagr_1y, :cagr_3y, :cagr_5y, :volatility, :error_text)`, evt)
	return err
}

func (s *sqlStore) RecentLookups(limit int) ([]LookupEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []LookupEvent
	q := s.db.Rebind(`SELECT id, timestamp, source, provider, symbol, start_date, end_date, bars,
		cagr_1y, cagr_3y, cagr_5y, volatility, error_text
		FROM lookups ORDER BY timestamp DESC, id DESC LIMIT ?`)
	if err := s.db.Select(&out, q, limit); err != nil {
		return nil, fmt.Errorf("select lookups: %w", err)
	}
	return out, nil
}
