package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/processor"
)

// TurnRecord is one resolved turn in the log of a save.
type TurnRecord struct {
	ID        int64
	SaveID    string
	Turn      int
	Outcome   processor.Outcome
	CreatedAt time.Time
}

// RecordTurn appends the outcome of a resolved turn to the save's log.
func (s *Store) RecordTurn(ctx context.Context, saveID string, turn int, outcome processor.Outcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO turn_log (save_id, turn, outcome_json, created_at)
		VALUES (?, ?, ?, ?)
	`, saveID, turn, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert turn %d for save %s: %w", turn, saveID, err)
	}
	return nil
}

// TurnHistory returns the save's turn log in the order it was recorded.
func (s *Store) TurnHistory(ctx context.Context, saveID string) ([]*TurnRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, save_id, turn, outcome_json, created_at
		FROM turn_log
		WHERE save_id = ?
		ORDER BY id ASC
	`, saveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*TurnRecord
	for rows.Next() {
		r := &TurnRecord{}
		var data string
		if err := rows.Scan(&r.ID, &r.SaveID, &r.Turn, &data, &r.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &r.Outcome); err != nil {
			return nil, fmt.Errorf("decode outcome of turn %d: %w", r.Turn, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
