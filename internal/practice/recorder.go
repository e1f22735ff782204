// Package practice ties a recording session to round persistence for one user.
package practice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/session"
	"github.com/verte-zerg/quiver/internal/stats"
)

// Repository persists rounds per user.
type Repository interface {
	SaveRound(ctx context.Context, userID string, round model.Round) error
	SaveRounds(ctx context.Context, userID string, rounds []model.Round) error
	LoadRounds(ctx context.Context, userID string) ([]model.Round, error)
	UpdateNotes(ctx context.Context, userID, roundID, notes string) error
	DeleteRound(ctx context.Context, userID, roundID string) error
}

// Recorder owns the in-progress session and the saved rounds of a user.
//
// When a repository call fails the error is returned and the in-memory state
// is left exactly as it was before the call.
type Recorder struct {
	repo    Repository
	userID  string
	session *session.Session
	rounds  []model.Round

	now   func() time.Time
	newID func() string
}

// Option customizes a Recorder.
type Option func(*Recorder)

// WithClock sets the clock used to timestamp rounds.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithIDs sets the generator for round ids.
func WithIDs(newID func() string) Option {
	return func(r *Recorder) {
		r.newID = newID
	}
}

// NewRecorder returns a Recorder with a fresh session built from cfg.
func NewRecorder(repo Repository, userID string, cfg model.Config, opts ...Option) *Recorder {
	r := &Recorder{
		repo:    repo,
		userID:  userID,
		session: session.New(cfg),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Session returns the in-progress session.
func (r *Recorder) Session() *session.Session {
	return r.session
}

// UserID returns the user the recorder works for.
func (r *Recorder) UserID() string {
	return r.userID
}

// Rounds returns the saved rounds, newest first.
func (r *Recorder) Rounds() []model.Round {
	return append([]model.Round(nil), r.rounds...)
}

// Round returns the saved round with the given id.
func (r *Recorder) Round(id string) (model.Round, bool) {
	for _, round := range r.rounds {
		if round.ID == id {
			return round, true
		}
	}
	return model.Round{}, false
}

// Load replaces the saved rounds with the repository contents.
func (r *Recorder) Load(ctx context.Context) error {
	rounds, err := r.repo.LoadRounds(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("failed to load rounds: %w", err)
	}
	r.rounds = rounds
	return nil
}

// Save finalizes and stores the session. It reports false without error when
// the session is not complete. On success the session starts over.
func (r *Recorder) Save(ctx context.Context, notes string) (model.Round, bool, error) {
	round, ok := r.session.Finalize(r.newID(), r.now(), notes)
	if !ok {
		return model.Round{}, false, nil
	}
	if err := r.repo.SaveRound(ctx, r.userID, round); err != nil {
		return model.Round{}, false, fmt.Errorf("failed to save round: %w", err)
	}
	r.rounds = insertNewestFirst(r.rounds, round)
	r.session.Reset()
	return round, true, nil
}

// Import stores rounds in one batch. Derived fields are recomputed and rounds
// without an id get a new one.
func (r *Recorder) Import(ctx context.Context, rounds []model.Round) ([]model.Round, error) {
	prepared := make([]model.Round, len(rounds))
	for i, round := range rounds {
		if err := stats.ValidateRound(round); err != nil {
			return nil, fmt.Errorf("invalid round %d: %w", i+1, err)
		}
		if round.ID == "" {
			round.ID = r.newID()
		}
		if round.CreatedAt.IsZero() {
			round.CreatedAt = r.now()
		}
		prepared[i] = stats.Recompute(round)
	}
	if err := r.repo.SaveRounds(ctx, r.userID, prepared); err != nil {
		return nil, fmt.Errorf("failed to import rounds: %w", err)
	}
	updated := r.rounds
	for _, round := range prepared {
		updated = insertNewestFirst(removeRound(updated, round.ID), round)
	}
	r.rounds = updated
	return prepared, nil
}

// UpdateNotes changes the notes of a saved round.
func (r *Recorder) UpdateNotes(ctx context.Context, roundID, notes string) error {
	if err := r.repo.UpdateNotes(ctx, r.userID, roundID, notes); err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}
	updated := append([]model.Round(nil), r.rounds...)
	for i := range updated {
		if updated[i].ID == roundID {
			updated[i].Notes = notes
		}
	}
	r.rounds = updated
	return nil
}

// Delete removes a saved round.
func (r *Recorder) Delete(ctx context.Context, roundID string) error {
	if err := r.repo.DeleteRound(ctx, r.userID, roundID); err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	r.rounds = removeRound(r.rounds, roundID)
	return nil
}

func insertNewestFirst(rounds []model.Round, round model.Round) []model.Round {
	out := make([]model.Round, 0, len(rounds)+1)
	inserted := false
	for _, existing := range rounds {
		if !inserted && !round.CreatedAt.Before(existing.CreatedAt) {
			out = append(out, round)
			inserted = true
		}
		out = append(out, existing)
	}
	if !inserted {
		out = append(out, round)
	}
	return out
}

func removeRound(rounds []model.Round, id string) []model.Round {
	out := make([]model.Round, 0, len(rounds))
	for _, round := range rounds {
		if round.ID != id {
			out = append(out, round)
		}
	}
	return out
}
