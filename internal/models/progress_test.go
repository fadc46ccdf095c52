package models

import (
	"reflect"
	"testing"
)

func TestExerciseProgressToggle(t *testing.T) {
	var p ExerciseProgress

	if !p.Toggle(2) || !p.Toggle(0) {
		t.Fatal("Toggle on unchecked sets should return true")
	}
	if !reflect.DeepEqual(p.CompletedSets, []int{0, 2}) {
		t.Errorf("CompletedSets = %v, want [0 2]", p.CompletedSets)
	}
	if p.Toggle(2) {
		t.Error("Toggle on a checked set should return false")
	}
	if !reflect.DeepEqual(p.CompletedSets, []int{0}) {
		t.Errorf("CompletedSets = %v, want [0]", p.CompletedSets)
	}
}

func TestCustomWeights(t *testing.T) {
	var w CustomWeights
	w.Set(2, 62.5)

	if _, ok := w.For(0); ok {
		t.Error("set 0 has no override")
	}
	if kg, ok := w.For(2); !ok || kg != 62.5 {
		t.Errorf("For(2) = %v, %v", kg, ok)
	}
	if _, ok := w.For(5); ok {
		t.Error("out of range set should have no override")
	}
	w.Set(-1, 10)
	if len(w.Weights) != 3 {
		t.Errorf("negative index should be ignored, got %v", w.Weights)
	}
}

func TestSetSchemes(t *testing.T) {
	var fixed SetScheme = Fixed{Sets: 4, Reps: 8, Weight: 80, Rest: 90}
	if fixed.Count() != 4 || fixed.Set(3).Weight != 80 || fixed.Set(4) != (SetSpec{}) {
		t.Errorf("unexpected fixed scheme behavior: %+v", fixed)
	}

	var pyramid SetScheme = PerSet{Sets: []SetSpec{{Reps: 12, Weight: 60}, {Reps: 10, Weight: 70}}}
	if pyramid.Count() != 2 || pyramid.Set(1).Reps != 10 {
		t.Errorf("unexpected per-set scheme behavior: %+v", pyramid)
	}

	w := Workout{Exercises: []Exercise{{ID: "a", Sets: fixed}, {ID: "b", Sets: pyramid}, {ID: "c"}}}
	if w.TotalSets() != 6 {
		t.Errorf("TotalSets() = %d, want 6", w.TotalSets())
	}
}
