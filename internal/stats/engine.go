package stats

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
)

// UnknownMuscleGroup collects logs recorded without a muscle group
const UnknownMuscleGroup = "other"

// DefaultTopExercises is the default limit of TopExercises
const DefaultTopExercises = 10

// HistorySource loads the persisted session history
type HistorySource interface {
	LoadHistory() models.History
}

// WeekPoint is one entry of the progression series
type WeekPoint struct {
	Week           int     `json:"week"`
	Label          string  `json:"label"`
	Volume         float64 `json:"volume"`
	Sessions       int     `json:"sessions"`
	CompletionRate int     `json:"completionRate"`
}

// ExerciseEntry is one logged occurrence of an exercise
type ExerciseEntry struct {
	Week   int      `json:"week"`
	Day    string   `json:"day"`
	Weight float64  `json:"weight"`
	Reps   int      `json:"reps"`
	Volume float64  `json:"volume"`
	RPE    *float64 `json:"rpe,omitempty"`
}

// MuscleVolume is the summed volume of one muscle group
type MuscleVolume struct {
	Name   string  `json:"name"`
	Volume float64 `json:"volume"`
}

// MuscleShare is a muscle group's share of the total volume, in percent
type MuscleShare struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// MuscleSets counts logged sets per muscle group
type MuscleSets struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
}

// ExerciseCount is how often an exercise was logged
type ExerciseCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary bundles the headline numbers of the statistics view
type Summary struct {
	TotalVolume            float64 `json:"totalVolume"`
	AverageWeeklyVolume    float64 `json:"averageWeeklyVolume"`
	TotalSessions          int     `json:"totalSessions"`
	CompletionRate         int     `json:"completionRate"`
	AverageSessionDuration float64 `json:"averageSessionDuration"`
	VolumeGrowthRate       float64 `json:"volumeGrowthRate"`
}

// Engine computes read-only aggregates over the session history.
// Missing fields count as zero and no query fails.
type Engine struct {
	history models.History
	source  HistorySource
}

// New creates an engine over a history snapshot
func New(history models.History) *Engine {
	if history == nil {
		history = models.History{}
	}
	return &Engine{history: history}
}

// NewFromSource creates an engine that loads, and can reload, its history from source
func NewFromSource(source HistorySource) *Engine {
	e := &Engine{source: source}
	e.Refresh()
	return e
}

// Refresh reloads the history from the source, if any
func (e *Engine) Refresh() {
	if e.source == nil {
		return
	}
	h := e.source.LoadHistory()
	if h == nil {
		h = models.History{}
	}
	e.history = h
}

// History returns the snapshot the engine computes over
func (e *Engine) History() models.History {
	return e.history
}

// WeeklyVolume sums the session volumes of a week, rounded to whole kg
func (e *Engine) WeeklyVolume(week int) float64 {
	total := 0.0
	for _, s := range e.sessions(week) {
		total += s.session.Volume
	}
	return math.Round(total)
}

// TotalVolume sums WeeklyVolume over the whole program
func (e *Engine) TotalVolume() float64 {
	total := 0.0
	for week := 1; week <= constants.TotalWeeks; week++ {
		total += e.WeeklyVolume(week)
	}
	return math.Round(total)
}

// AverageWeeklyVolume averages WeeklyVolume over weeks with at least one
// completed session.
func (e *Engine) AverageWeeklyVolume() float64 {
	total := 0.0
	weeks := 0
	for week := 1; week <= constants.TotalWeeks; week++ {
		if e.completedIn(week) == 0 {
			continue
		}
		total += e.WeeklyVolume(week)
		weeks++
	}
	if weeks == 0 {
		return 0
	}
	return math.Round(total / float64(weeks))
}

// TotalSessions counts completed sessions on tracked days
func (e *Engine) TotalSessions() int {
	count := 0
	for week := 1; week <= constants.TotalWeeks; week++ {
		count += e.completedIn(week)
	}
	return count
}

// CompletionRate is the percentage of the program's sessions completed
func (e *Engine) CompletionRate() int {
	total := constants.TotalWeeks * constants.SessionsPerWeek
	return int(math.Round(float64(e.TotalSessions()) / float64(total) * 100))
}

// WeekCompletionRate is the percentage of a week's sessions completed
func (e *Engine) WeekCompletionRate(week int) int {
	return int(math.Round(float64(e.completedIn(week)) / float64(constants.SessionsPerWeek) * 100))
}

// AverageSessionDuration averages the duration, in minutes, of completed
// sessions that recorded one.
func (e *Engine) AverageSessionDuration() float64 {
	total := 0.0
	count := 0
	for _, s := range e.allSessions() {
		if s.session.Completed && s.session.Duration > 0 {
			total += s.session.Duration
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Round(total / float64(count))
}

// VolumeGrowthRate compares the last non-zero weekly volume with the first,
// in percent.
func (e *Engine) VolumeGrowthRate() float64 {
	volumes := make([]float64, 0, constants.TotalWeeks)
	for week := 1; week <= constants.TotalWeeks; week++ {
		volumes = append(volumes, e.WeeklyVolume(week))
	}

	nonZero := func(v float64) bool { return v > 0 }
	first := slices.IndexFunc(volumes, nonZero)
	if first < 0 {
		return 0
	}
	last := first
	for i := len(volumes) - 1; i > first; i-- {
		if nonZero(volumes[i]) {
			last = i
			break
		}
	}
	return math.Round((volumes[last] - volumes[first]) / volumes[first] * 100)
}

// ProgressionSeries returns the last n weeks of the program in chronological order
func (e *Engine) ProgressionSeries(n int) []WeekPoint {
	if n <= 0 {
		return []WeekPoint{}
	}
	start := max(1, constants.TotalWeeks-n+1)
	points := make([]WeekPoint, 0, constants.TotalWeeks-start+1)
	for week := start; week <= constants.TotalWeeks; week++ {
		points = append(points, WeekPoint{
			Week:           week,
			Label:          WeekLabel(week),
			Volume:         e.WeeklyVolume(week),
			Sessions:       e.completedIn(week),
			CompletionRate: e.WeekCompletionRate(week),
		})
	}
	return points
}

// PersonalRecords keeps running maxima per exercise name. Each metric is
// tracked independently and the date follows the last metric that improved.
func (e *Engine) PersonalRecords() map[string]models.PersonalRecord {
	records := make(map[string]models.PersonalRecord)
	for _, s := range e.allSessions() {
		for _, log := range s.session.Exercises {
			rec := records[log.Name]
			volume := log.Volume
			if log.Weight > rec.MaxWeight {
				rec.MaxWeight = log.Weight
				rec.Date = s.session.Date
			}
			if volume > rec.MaxVolume {
				rec.MaxVolume = volume
				rec.Date = s.session.Date
			}
			if log.Reps > rec.MaxReps {
				rec.MaxReps = log.Reps
				rec.Date = s.session.Date
			}
			records[log.Name] = rec
		}
	}
	return records
}

// ExerciseProgress lists every logged occurrence of an exercise, oldest first
func (e *Engine) ExerciseProgress(name string) []ExerciseEntry {
	entries := []ExerciseEntry{}
	for _, s := range e.allSessions() {
		for _, log := range s.session.Exercises {
			if log.Name != name {
				continue
			}
			entries = append(entries, ExerciseEntry{
				Week:   s.week,
				Day:    s.day,
				Weight: log.Weight,
				Reps:   log.Reps,
				Volume: log.Volume,
				RPE:    log.RPE,
			})
		}
	}
	return entries
}

// VolumeByMuscleGroup sums volume per muscle group, largest first. Ties keep
// the order in which groups first appear in the history.
func (e *Engine) VolumeByMuscleGroup() []MuscleVolume {
	var groups []MuscleVolume
	index := make(map[string]int)
	for _, s := range e.allSessions() {
		for _, log := range s.session.Exercises {
			name := muscleGroup(log)
			i, ok := index[name]
			if !ok {
				i = len(groups)
				index[name] = i
				groups = append(groups, MuscleVolume{Name: name})
			}
			groups[i].Volume += log.Volume
		}
	}
	for i := range groups {
		groups[i].Volume = math.Round(groups[i].Volume)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Volume > groups[j].Volume
	})
	if groups == nil {
		return []MuscleVolume{}
	}
	return groups
}

// MuscleDistribution expresses VolumeByMuscleGroup as percentages of the
// total, rounded to one decimal.
func (e *Engine) MuscleDistribution() []MuscleShare {
	groups := e.VolumeByMuscleGroup()
	total := 0.0
	for _, g := range groups {
		total += g.Volume
	}
	shares := make([]MuscleShare, 0, len(groups))
	for _, g := range groups {
		pct := 0.0
		if total > 0 {
			pct = math.Round(g.Volume/total*1000) / 10
		}
		shares = append(shares, MuscleShare{Name: g.Name, Percent: pct})
	}
	return shares
}

// SetCountPerMuscle counts logged sets per muscle group, most first
func (e *Engine) SetCountPerMuscle() []MuscleSets {
	var groups []MuscleSets
	index := make(map[string]int)
	for _, s := range e.allSessions() {
		for _, log := range s.session.Exercises {
			name := muscleGroup(log)
			i, ok := index[name]
			if !ok {
				i = len(groups)
				index[name] = i
				groups = append(groups, MuscleSets{Name: name})
			}
			groups[i].Sets += log.SetCount()
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Sets > groups[j].Sets
	})
	if groups == nil {
		return []MuscleSets{}
	}
	return groups
}

// TopExercises counts occurrences per exercise name, most frequent first,
// truncated to limit. A non-positive limit uses DefaultTopExercises.
func (e *Engine) TopExercises(limit int) []ExerciseCount {
	if limit <= 0 {
		limit = DefaultTopExercises
	}
	var counts []ExerciseCount
	index := make(map[string]int)
	for _, s := range e.allSessions() {
		for _, log := range s.session.Exercises {
			i, ok := index[log.Name]
			if !ok {
				i = len(counts)
				index[log.Name] = i
				counts = append(counts, ExerciseCount{Name: log.Name})
			}
			counts[i].Count++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	if counts == nil {
		return []ExerciseCount{}
	}
	return counts
}

// Summary returns the headline numbers in one pass over the queries
func (e *Engine) Summary() Summary {
	return Summary{
		TotalVolume:            e.TotalVolume(),
		AverageWeeklyVolume:    e.AverageWeeklyVolume(),
		TotalSessions:          e.TotalSessions(),
		CompletionRate:         e.CompletionRate(),
		AverageSessionDuration: e.AverageSessionDuration(),
		VolumeGrowthRate:       e.VolumeGrowthRate(),
	}
}

// FormatVolume renders kilograms below a tonne and tonnes with one decimal above
func FormatVolume(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1ft", v/1000)
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "kg"
}

// WeekLabel is the short label of a week in charts
func WeekLabel(week int) string {
	return fmt.Sprintf("W%d", week)
}

type daySession struct {
	week    int
	day     string
	session models.DaySession
}

// sessions returns a week's sessions in canonical day order, then any other
// day keys sorted.
func (e *Engine) sessions(week int) []daySession {
	days := e.history.Week(week)
	if len(days) == 0 {
		return nil
	}

	out := make([]daySession, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, day := range constants.TrackedDays {
		if s, ok := days[day]; ok {
			out = append(out, daySession{week: week, day: day, session: s})
			seen[day] = true
		}
	}

	var extra []string
	for day := range days {
		if !seen[day] {
			extra = append(extra, day)
		}
	}
	sort.Strings(extra)
	for _, day := range extra {
		out = append(out, daySession{week: week, day: day, session: days[day]})
	}
	return out
}

func (e *Engine) allSessions() []daySession {
	var out []daySession
	for week := 1; week <= constants.TotalWeeks; week++ {
		out = append(out, e.sessions(week)...)
	}
	return out
}

// completedIn counts the completed sessions of a week on tracked days only,
// so home sessions never push a week past SessionsPerWeek.
func (e *Engine) completedIn(week int) int {
	count := 0
	for _, s := range e.sessions(week) {
		if s.session.Completed && slices.Contains(constants.TrackedDays, s.day) {
			count++
		}
	}
	return count
}

func muscleGroup(log models.ExerciseLog) string {
	if log.MuscleGroup == "" {
		return UnknownMuscleGroup
	}
	return log.MuscleGroup
}
