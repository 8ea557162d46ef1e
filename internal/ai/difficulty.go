package ai

import (
	"errors"
	"fmt"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

type Difficulty string

const (
	Beginner Difficulty = "beginner"
	Easy     Difficulty = "easy"
	Normal   Difficulty = "normal"
	Hard     Difficulty = "hard"
	Expert   Difficulty = "expert"
	Master   Difficulty = "master"
)

// Difficulties lists every tier from weakest to strongest.
var Difficulties = []Difficulty{Beginner, Easy, Normal, Hard, Expert, Master}

var searchDepths = map[Difficulty]int{
	Normal: 2,
	Hard:   3,
	Expert: 4,
	Master: 5,
}

func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// SearchDepth returns the minimax depth of a searching tier, or false for the
// random tiers.
func (d Difficulty) SearchDepth() (int, bool) {
	depth, ok := searchDepths[d]
	return depth, ok
}
