package models

import "sort"

// NavigationState is the last week/day the user looked at.
type NavigationState struct {
	Week int    `json:"week"`
	Day  string `json:"day"`
}

// ExerciseProgress holds the set indices checked for one exercise of one day.
type ExerciseProgress struct {
	CompletedSets []int `json:"completedSets"`
	LastUpdate    int64 `json:"lastUpdate"`
}

// Has reports whether the set index is checked.
func (p ExerciseProgress) Has(set int) bool {
	for _, s := range p.CompletedSets {
		if s == set {
			return true
		}
	}
	return false
}

// Toggle flips a set index and returns its new checked state. CompletedSets
// stays sorted and free of duplicates.
func (p *ExerciseProgress) Toggle(set int) bool {
	if p.Has(set) {
		out := p.CompletedSets[:0]
		for _, s := range p.CompletedSets {
			if s != set {
				out = append(out, s)
			}
		}
		p.CompletedSets = out
		return false
	}
	p.CompletedSets = append(p.CompletedSets, set)
	sort.Ints(p.CompletedSets)
	return true
}

// CustomWeights holds per-set weight overrides. A zero entry means no override.
type CustomWeights struct {
	Weights    []float64 `json:"weights"`
	LastUpdate int64     `json:"lastUpdate"`
}

// For returns the override for a set index.
func (w CustomWeights) For(set int) (float64, bool) {
	if set < 0 || set >= len(w.Weights) || w.Weights[set] == 0 {
		return 0, false
	}
	return w.Weights[set], true
}

// Set records an override, growing the slice as needed.
func (w *CustomWeights) Set(set int, kg float64) {
	if set < 0 {
		return
	}
	for len(w.Weights) <= set {
		w.Weights = append(w.Weights, 0)
	}
	w.Weights[set] = kg
}

// TimerState is the persisted snapshot of the rest timer.
type TimerState struct {
	Remaining int    `json:"remaining"`
	Duration  int    `json:"duration"`
	IsRunning bool   `json:"isRunning"`
	Timestamp int64  `json:"timestamp"`
	Context   string `json:"context,omitempty"`
	Label     string `json:"label,omitempty"`
	SetIndex  int    `json:"setIndex,omitempty"`
}
