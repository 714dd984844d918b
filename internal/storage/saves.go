package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/snapshot"
)

// Save is the metadata of one stored snapshot.
type Save struct {
	ID        string
	Name      string
	Turn      int
	CreatedAt time.Time
}

// SaveSnapshot stores the world under name. Every call creates a new save;
// the snapshot id becomes the save id.
func (s *Store) SaveSnapshot(ctx context.Context, name string, w *core.World) (*Save, error) {
	snap := snapshot.Encode(w)
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	save := &Save{ID: snap.ID, Name: name, Turn: snap.Turn, CreatedAt: time.Now().UTC()}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO saves (id, name, turn, snapshot_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, save.ID, save.Name, save.Turn, string(data), save.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert save: %w", err)
	}

	s.logger.Info().
		Str("save_id", save.ID).
		Str("name", name).
		Int("turn", save.Turn).
		Int("bytes", len(data)).
		Msg("Snapshot saved")
	return save, nil
}

// LoadSnapshot returns the stored snapshot with the given save id.
func (s *Store) LoadSnapshot(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	var data string
	err := s.conn.QueryRowContext(ctx, `SELECT snapshot_json FROM saves WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(data)
}

// LatestSnapshot returns the most recent save stored under name.
func (s *Store) LatestSnapshot(ctx context.Context, name string) (*Save, *snapshot.Snapshot, error) {
	save := &Save{}
	var data string
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, name, turn, created_at, snapshot_json
		FROM saves
		WHERE name = ?
		ORDER BY rowid DESC
		LIMIT 1
	`, name).Scan(&save.ID, &save.Name, &save.Turn, &save.CreatedAt, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: no save named %q", ErrSaveNotFound, name)
	}
	if err != nil {
		return nil, nil, err
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, nil, err
	}
	return save, snap, nil
}

// ListSaves lists every save, newest first.
func (s *Store) ListSaves(ctx context.Context) ([]*Save, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, name, turn, created_at
		FROM saves
		ORDER BY rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saves []*Save
	for rows.Next() {
		save := &Save{}
		if err := rows.Scan(&save.ID, &save.Name, &save.Turn, &save.CreatedAt); err != nil {
			return nil, err
		}
		saves = append(saves, save)
	}
	return saves, rows.Err()
}

// DeleteSave removes a save together with its turn log.
func (s *Store) DeleteSave(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSaveNotFound, id)
	}
	s.logger.Info().Str("save_id", id).Msg("Save deleted")
	return nil
}

func decodeSnapshot(data string) (*snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode stored snapshot: %w", err)
	}
	return &snap, nil
}
