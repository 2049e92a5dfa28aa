// Package workflow tracks the coarse progress stage of each user.
//
// Stages can be set to any value at any time. On top of that, Observe moves
// a user forward when their data shows they reached a later milestone.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
)

// ErrInvalidStage is returned for a stage outside the four known values.
var ErrInvalidStage = errors.New("invalid workflow stage")

// SnapshotReader loads everything a user owns.
type SnapshotReader interface {
	Snapshot(ctx context.Context, userID string) (*models.Snapshot, error)
}

// Status is the current stage together with what the data suggests.
type Status struct {
	Current   models.Stage
	Inferred  models.Stage
	NextSteps []string
}

var nextSteps = map[models.Stage][]string{
	models.StageStarted:      {"Provide consent", "Set a budget", "Add your first goal"},
	models.StageMVP:          {"Complete budgets and goals", "Review spending patterns"},
	models.StageIntermediate: {"Explore AI insights", "Plan next actions"},
	models.StageAdvanced:     {"Track investment performance", "Rebalance your portfolio"},
}

// NextSteps lists suggested actions for a stage.
func NextSteps(stage models.Stage) []string {
	steps := nextSteps[stage]
	out := make([]string, len(steps))
	copy(out, steps)
	return out
}

// Infer derives the stage a snapshot's data corresponds to.
func Infer(snap *models.Snapshot) models.Stage {
	hasGoals := len(snap.Goals) > 0
	hasBudgets := len(snap.Budgets) > 0
	switch {
	case snap.Empty():
		return models.StageStarted
	case !hasGoals || !hasBudgets:
		return models.StageMVP
	case len(snap.Investments) > 0:
		return models.StageAdvanced
	default:
		return models.StageIntermediate
	}
}

// Tracker reads and writes user stages.
type Tracker struct {
	users     storage.UserStore
	snapshots SnapshotReader
}

// New creates a Tracker.
func New(users storage.UserStore, snapshots SnapshotReader) *Tracker {
	return &Tracker{users: users, snapshots: snapshots}
}

// Current returns the stored stage of a user.
func (t *Tracker) Current(ctx context.Context, userID string) (models.Stage, error) {
	user, err := t.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Stage, nil
}

// SetStage stores stage for the user. Any of the four stages is accepted,
// including moving backwards.
func (t *Tracker) SetStage(ctx context.Context, userID string, stage models.Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	if err := t.users.UpdateUserStage(ctx, userID, stage); err != nil {
		return fmt.Errorf("failed to set stage: %w", err)
	}
	slog.Info("Workflow stage set", "user_id", userID, "stage", stage)
	return nil
}

// Status reports the stored stage, the inferred one and the next steps for
// the stored stage.
func (t *Tracker) Status(ctx context.Context, userID string) (*Status, error) {
	snap, err := t.snapshots.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Status{
		Current:   snap.User.Stage,
		Inferred:  Infer(snap),
		NextSteps: NextSteps(snap.User.Stage),
	}, nil
}

// Observe promotes the snapshot's user to the inferred stage if that is
// further along. It never moves a user backwards. It returns the resulting
// stage and whether it changed; on change snap.User is updated in place.
func (t *Tracker) Observe(ctx context.Context, snap *models.Snapshot) (models.Stage, bool, error) {
	current := snap.User.Stage
	inferred := Infer(snap)
	if inferred.Rank() <= current.Rank() {
		return current, false, nil
	}
	if err := t.users.UpdateUserStage(ctx, snap.User.ID, inferred); err != nil {
		return current, false, fmt.Errorf("failed to promote stage: %w", err)
	}
	slog.Info("Workflow stage promoted", "user_id", snap.User.ID, "from", current, "to", inferred)
	snap.User.Stage = inferred
	return inferred, true, nil
}
