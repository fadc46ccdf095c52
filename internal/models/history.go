package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExerciseLog is one exercise as it was performed in a recorded session.
type ExerciseLog struct {
	Name        string   `json:"name"`
	Weight      float64  `json:"weight"`
	Reps        int      `json:"reps"`
	Sets        int      `json:"sets,omitempty"`
	Volume      float64  `json:"volume"`
	MuscleGroup string   `json:"muscleGroup,omitempty"`
	RPE         *float64 `json:"rpe,omitempty"`
}

// ComputedVolume returns the cached volume, falling back to weight x reps
// when the log was stored without one.
func (l ExerciseLog) ComputedVolume() float64 {
	if l.Volume != 0 {
		return l.Volume
	}
	return l.Weight * float64(l.Reps)
}

// DaySession is the recorded outcome of one (week, day) slot.
type DaySession struct {
	Completed bool          `json:"completed"`
	Volume    float64       `json:"volume"`
	Duration  float64       `json:"duration"`
	Exercises []ExerciseLog `json:"exercises"`
	Date      string        `json:"date,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
}

// AddExercise appends a log and keeps Volume in sync with the exercises.
func (s *DaySession) AddExercise(log ExerciseLog) {
	if log.Volume == 0 {
		log.Volume = log.Weight * float64(log.Reps)
	}
	s.Exercises = append(s.Exercises, log)
	s.RecomputeVolume()
}

// SetExercises replaces the exercise list and recomputes Volume.
func (s *DaySession) SetExercises(logs []ExerciseLog) {
	s.Exercises = nil
	for _, l := range logs {
		s.AddExercise(l)
	}
	s.RecomputeVolume()
}

// RecomputeVolume derives Volume from the exercise logs.
func (s *DaySession) RecomputeVolume() {
	total := 0.0
	for _, l := range s.Exercises {
		total += l.ComputedVolume()
	}
	s.Volume = math.Round(total*100) / 100
}

// History maps week keys (week_<n>) to the sessions of that week by day key.
type History map[string]map[string]DaySession

// WeekKey returns the history key for a week number.
func WeekKey(week int) string {
	return fmt.Sprintf("week_%d", week)
}

// ParseWeekKey extracts the week number from a history key.
func ParseWeekKey(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(key, "week_"))
	if err != nil || !strings.HasPrefix(key, "week_") {
		return 0, false
	}
	return n, true
}

// Week returns the sessions of a week, or nil when none were recorded.
func (h History) Week(week int) map[string]DaySession {
	return h[WeekKey(week)]
}

// Session returns the session for a (week, day) pair.
func (h History) Session(week int, day string) (DaySession, bool) {
	s, ok := h[WeekKey(week)][day]
	return s, ok
}

// Put stores the session for a (week, day) pair, replacing any previous one.
func (h History) Put(week int, day string, s DaySession) {
	key := WeekKey(week)
	if h[key] == nil {
		h[key] = make(map[string]DaySession)
	}
	h[key][day] = s
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (h History) Clone() History {
	out := make(History, len(h))
	for wk, days := range h {
		out[wk] = make(map[string]DaySession, len(days))
		for day, s := range days {
			s.Exercises = append([]ExerciseLog(nil), s.Exercises...)
			out[wk][day] = s
		}
	}
	return out
}

// SetCount returns the number of sets the log covers. Logs stored without a
// count stand for a single set.
func (l ExerciseLog) SetCount() int {
	if l.Sets > 0 {
		return l.Sets
	}
	return 1
}

// PersonalRecord is the best performance observed for one exercise name.
type PersonalRecord struct {
	MaxWeight float64 `json:"maxWeight"`
	MaxVolume float64 `json:"maxVolume"`
	MaxReps   int     `json:"maxReps"`
	Date      string  `json:"date,omitempty"`
}
