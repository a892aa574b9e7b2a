package onset

import (
	"fmt"
	"math"
	"sort"
)

// Onset is a detected accent: when it happens and how pronounced it is.
type Onset struct {
	Time     float64 `json:"time"`
	Strength float64 `json:"strength"`
}

// Set is an ordered collection of onsets, ascending by time.
type Set []Onset

// FromParallel pairs the provider's parallel time/strength sequences.
// Negative or NaN strengths are stored as zero.
func FromParallel(times, strengths []float64) (Set, error) {
	if len(times) != len(strengths) {
		return nil, fmt.Errorf("onset: %d times but %d strengths", len(times), len(strengths))
	}
	set := make(Set, len(times))
	for i := range times {
		strength := strengths[i]
		if math.IsNaN(strength) || strength < 0 {
			strength = 0
		}
		set[i] = Onset{Time: times[i], Strength: strength}
	}
	return set, nil
}

// Len returns the number of onsets.
func (s Set) Len() int { return len(s) }

// Times returns the onset times in collection order.
func (s Set) Times() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Time
	}
	return out
}

// IsSorted reports whether onset times are non-decreasing.
func (s Set) IsSorted() bool {
	return sort.SliceIsSorted(s, func(i, j int) bool { return s[i].Time < s[j].Time })
}

// sorted returns s when it is already time-ordered, otherwise a stably sorted
// copy so equal times keep their provider order.
func (s Set) sorted() Set {
	if s.IsSorted() {
		return s
	}
	out := make(Set, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Strongest returns the index of the onset with the highest strength, or -1
// for an empty set. Ties go to the earliest onset.
func (s Set) Strongest() int {
	best := -1
	for i, o := range s {
		if best < 0 || o.Strength > s[best].Strength {
			best = i
		}
	}
	return best
}
