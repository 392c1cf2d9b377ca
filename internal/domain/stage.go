package domain

import "fmt"

// EvolutionStage is the ordinal growth tier of a token (1..4).
// It is always derived from market cap and never persisted.
type EvolutionStage int

const (
	StageHatchling EvolutionStage = 1
	StageEvolved   EvolutionStage = 2
	StageMega      EvolutionStage = 3
	StageLegendary EvolutionStage = 4
)

// MinStage and MaxStage bound the valid stage range.
const (
	MinStage = StageHatchling
	MaxStage = StageLegendary
)

// String returns the badge name shown for the stage.
func (s EvolutionStage) String() string {
	switch s {
	case StageHatchling:
		return "Hatchling"
	case StageEvolved:
		return "Evolved"
	case StageMega:
		return "Mega"
	case StageLegendary:
		return "Legendary"
	default:
		return fmt.Sprintf("EvolutionStage(%d)", int(s))
	}
}

// IsValid checks if the stage is within 1..4.
func (s EvolutionStage) IsValid() bool {
	return s >= MinStage && s <= MaxStage
}

// Clamp forces the stage into 1..4.
func (s EvolutionStage) Clamp() EvolutionStage {
	if s < MinStage {
		return MinStage
	}
	if s > MaxStage {
		return MaxStage
	}
	return s
}
