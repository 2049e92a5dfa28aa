package tools

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/finchat/internal/models"
)

// Goal status labels.
const (
	GoalCompleted    = "Completed"
	GoalOverdue      = "Overdue"
	GoalOnTrack      = "On Track"
	GoalProgressing  = "Progressing"
	GoalBehind       = "Behind"
	GoalGoodProgress = "Good Progress"
	GoalSomeProgress = "Some Progress"
	GoalJustStarted  = "Just Started"
)

var milestones = []float64{25, 50, 75, 90, 100}

// goalStatus classifies progress (in percent) given an optional deadline.
func goalStatus(g models.Goal, progress float64, now time.Time) string {
	if progress >= 100 {
		return GoalCompleted
	}
	if g.HasDeadline() {
		switch {
		case now.After(g.Deadline):
			return GoalOverdue
		case progress >= 75:
			return GoalOnTrack
		case progress >= 50:
			return GoalProgressing
		default:
			return GoalBehind
		}
	}
	switch {
	case progress >= 75:
		return GoalGoodProgress
	case progress >= 25:
		return GoalSomeProgress
	default:
		return GoalJustStarted
	}
}

// nextMilestone returns the first milestone above progress, or 0 when done.
func nextMilestone(progress float64) float64 {
	for _, m := range milestones {
		if progress < m {
			return m
		}
	}
	return 0
}

// monthsUntil counts whole months left before the deadline, at least one.
func monthsUntil(now, deadline time.Time) int64 {
	days := deadline.Sub(now).Hours() / 24
	return int64(math.Max(1, math.Ceil(days/30)))
}

// AnalyzeGoals reports progress for every savings goal.
func AnalyzeGoals(snap *models.Snapshot, p Params) (*Result, error) {
	if len(snap.Goals) == 0 {
		return nil, &InputError{Tool: Goals, Message: "You haven't set any savings goals yet. Add a goal to start tracking progress."}
	}

	var (
		target, saved decimal.Decimal
		completed     int
		goals         = make([]map[string]any, 0, len(snap.Goals))
		series        = make([]Point, 0, len(snap.Goals))
		focus         string
		focusProgress = math.Inf(1)
	)
	for _, g := range snap.Goals {
		t, c := dec(g.TargetAmount), dec(g.CurrentAmount)
		target = target.Add(t)
		saved = saved.Add(decimal.Min(c, t))

		progress := percent(c, t)
		status := goalStatus(g, progress, p.Now)
		if status == GoalCompleted {
			completed++
		}

		remaining := decimal.Max(t.Sub(c), decimal.Zero)
		entry := map[string]any{
			"id":             g.ID,
			"name":           g.Name,
			"target_amount":  cents(t),
			"current_amount": cents(c),
			"remaining":      cents(remaining),
			"progress_pct":   progress,
			"status":         status,
			"next_milestone": nextMilestone(progress),
		}
		if g.HasDeadline() {
			entry["deadline"] = g.Deadline.Format(models.DateLayout)
			if status != GoalCompleted && status != GoalOverdue {
				months := monthsUntil(p.Now, g.Deadline)
				entry["required_monthly"] = cents(remaining.Div(decimal.NewFromInt(months)))
			}
		}
		goals = append(goals, entry)
		series = append(series, Point{Label: g.Name, Value: progress})

		if status != GoalCompleted && progress < focusProgress {
			focus, focusProgress = g.Name, progress
		}
	}

	overall := percent(saved, target)
	summary := fmt.Sprintf("You have %d goal%s with %s saved toward %s (%.1f%% overall).",
		len(snap.Goals), plural(len(snap.Goals)), FormatMoney(saved), FormatMoney(target), overall)
	if completed > 0 {
		summary += fmt.Sprintf(" %d completed.", completed)
	}
	if focus != "" {
		summary += fmt.Sprintf(" %s needs the most attention at %.1f%%.", focus, focusProgress)
	}

	return &Result{
		Tool:    Goals,
		Summary: summary,
		Data: map[string]any{
			"goal_count":      len(snap.Goals),
			"completed_count": completed,
			"total_target":    cents(target),
			"total_saved":     cents(saved),
			"overall_pct":     overall,
			"goals":           goals,
		},
		Series: series,
	}, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
