// Package store handles SQLite persistence of rounds.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/quiver/internal/migrations"
	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a round does not exist for the user.
var ErrNotFound = errors.New("round not found")

// createdAtLayout is fixed width so that created_at sorts as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for round data. Every operation is scoped to a
// user id.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRound stores a round, replacing any existing round with the same id.
func (s *Store) SaveRound(ctx context.Context, userID string, round model.Round) error {
	return s.SaveRounds(ctx, userID, []model.Round{round})
}

// SaveRounds stores rounds in a single transaction. Either all rounds are
// stored or none is.
func (s *Store) SaveRounds(ctx context.Context, userID string, rounds []model.Round) (err error) {
	if len(rounds) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, r := range rounds {
		if r.ID == "" {
			return fmt.Errorf("round id is empty")
		}
		if err = saveRound(ctx, tx, userID, r); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func saveRound(ctx context.Context, tx *sql.Tx, userID string, r model.Round) error {
	var owner string
	err := tx.QueryRowContext(ctx, `SELECT user_id FROM rounds WHERE id = ?`, r.ID).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case owner != userID:
		return fmt.Errorf("round %s belongs to another user", r.ID)
	}
	if err := deleteChildren(ctx, tx, r.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rounds (id, user_id, created_at, total_score, target_radius, notes)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			total_score = excluded.total_score,
			target_radius = excluded.target_radius,
			notes = excluded.notes`,
		r.ID,
		userID,
		r.CreatedAt.UTC().Format(createdAtLayout),
		r.TotalScore,
		r.TargetRadius,
		r.Notes,
	); err != nil {
		return err
	}

	endStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ends (round_id, end_index, end_score, precision) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := endStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	shotStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO shots (round_id, end_index, shot_index, x, y, score) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := shotStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for i, e := range r.Ends {
		if _, err := endStmt.ExecContext(ctx, r.ID, i, e.EndScore, e.Precision); err != nil {
			return err
		}
		for j, sh := range e.Shots {
			if _, err := shotStmt.ExecContext(ctx, r.ID, i, j, sh.X, sh.Y, sh.Score); err != nil {
				return err
			}
		}
	}
	return nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, roundID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM shots WHERE round_id = ?`, roundID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ends WHERE round_id = ?`, roundID); err != nil {
		return err
	}
	return nil
}

// LoadRounds returns all rounds of a user, newest first. Missing numeric
// values are read as zero and derived fields are recomputed from the shots.
func (s *Store) LoadRounds(ctx context.Context, userID string) ([]model.Round, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, target_radius, notes
		 FROM rounds
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.Round
	index := map[string]int{}
	for rows.Next() {
		var r model.Round
		var createdAt string
		var radius sql.NullFloat64
		if err := rows.Scan(&r.ID, &createdAt, &radius, &r.Notes); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at of round %s: %w", r.ID, err)
		}
		r.CreatedAt = parsed
		r.TargetRadius = radius.Float64
		index[r.ID] = len(rounds)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(rounds) == 0 {
		return nil, nil
	}

	if err := s.loadEnds(ctx, userID, rounds, index); err != nil {
		return nil, err
	}
	if err := s.loadShots(ctx, userID, rounds, index); err != nil {
		return nil, err
	}
	for i := range rounds {
		rounds[i] = stats.Recompute(rounds[i])
	}
	return rounds, nil
}

func (s *Store) loadEnds(ctx context.Context, userID string, rounds []model.Round, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.round_id, e.end_index
		 FROM ends e
		 JOIN rounds r ON r.id = e.round_id
		 WHERE r.user_id = ?
		 ORDER BY e.round_id, e.end_index`, userID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var roundID string
		var endIdx int
		if err := rows.Scan(&roundID, &endIdx); err != nil {
			return err
		}
		i, ok := index[roundID]
		if !ok || endIdx < 0 {
			continue
		}
		growEnds(&rounds[i], endIdx)
	}
	return rows.Err()
}

func (s *Store) loadShots(ctx context.Context, userID string, rounds []model.Round, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sh.round_id, sh.end_index, sh.x, sh.y, sh.score
		 FROM shots sh
		 JOIN rounds r ON r.id = sh.round_id
		 WHERE r.user_id = ?
		 ORDER BY sh.round_id, sh.end_index, sh.shot_index`, userID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var roundID string
		var endIdx int
		var x, y sql.NullFloat64
		var score sql.NullInt64
		if err := rows.Scan(&roundID, &endIdx, &x, &y, &score); err != nil {
			return err
		}
		i, ok := index[roundID]
		if !ok || endIdx < 0 {
			continue
		}
		growEnds(&rounds[i], endIdx)
		end := &rounds[i].Ends[endIdx]
		end.Shots = append(end.Shots, model.Shot{
			X:     x.Float64,
			Y:     y.Float64,
			Score: int(score.Int64),
		})
	}
	return rows.Err()
}

func growEnds(r *model.Round, endIdx int) {
	for len(r.Ends) <= endIdx {
		r.Ends = append(r.Ends, model.End{Shots: []model.Shot{}})
	}
}

// UpdateNotes replaces the notes of a single round.
func (s *Store) UpdateNotes(ctx context.Context, userID, roundID, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rounds SET notes = ? WHERE id = ? AND user_id = ?`, notes, roundID, userID)
	if err != nil {
		return err
	}
	return expectRow(res, roundID)
}

// DeleteRound removes a round with its ends and shots.
func (s *Store) DeleteRound(ctx context.Context, userID, roundID string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE id = ? AND user_id = ?`, roundID, userID)
	if err != nil {
		return err
	}
	if err = expectRow(res, roundID); err != nil {
		return err
	}
	if err = deleteChildren(ctx, tx, roundID); err != nil {
		return err
	}
	return tx.Commit()
}

func expectRow(res sql.Result, roundID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, roundID)
	}
	return nil
}
