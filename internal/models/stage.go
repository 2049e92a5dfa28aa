package models

import (
	"fmt"
	"strings"
)

// Stage is the workflow progress label of a user.
type Stage string

const (
	StageStarted      Stage = "Started"
	StageMVP          Stage = "MVP"
	StageIntermediate Stage = "Intermediate"
	StageAdvanced     Stage = "Advanced"
)

// Stages lists every stage in progression order.
var Stages = []Stage{StageStarted, StageMVP, StageIntermediate, StageAdvanced}

// ParseStage converts a label to a Stage, ignoring case and surrounding spaces.
func ParseStage(s string) (Stage, error) {
	for _, stage := range Stages {
		if strings.EqualFold(strings.TrimSpace(s), string(stage)) {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown workflow stage %q", s)
}

// Rank returns the position of the stage in the progression, or -1.
func (s Stage) Rank() int {
	for i, stage := range Stages {
		if stage == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the four stages.
func (s Stage) Valid() bool {
	return s.Rank() >= 0
}

func (s Stage) String() string {
	return string(s)
}
