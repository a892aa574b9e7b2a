package onset

import (
	"math"
	"sort"
)

const (
	// DefaultLeadIn keeps the first uniformly placed line off time zero.
	DefaultLeadIn = 0.5
	// DefaultLeadOut keeps the last uniformly placed line off the end of the track.
	DefaultLeadOut = 1.0
)

// Strategy names the policy that produced a selection.
type Strategy string

const (
	StrategyNone      Strategy = "none"
	StrategyUniform   Strategy = "uniform"
	StrategyPadded    Strategy = "padded"
	StrategySegmented Strategy = "segmented"
)

// Policy holds the padding applied by the even-spread fallbacks.
type Policy struct {
	LeadIn  float64
	LeadOut float64
}

// DefaultPolicy returns the standard half-second lead-in and one-second lead-out.
func DefaultPolicy() Policy {
	return Policy{LeadIn: DefaultLeadIn, LeadOut: DefaultLeadOut}
}

// Selection is the outcome of Select.
type Selection struct {
	Times    []float64
	Strategy Strategy
	// Synthesized counts points that are not detected onsets (even-spread
	// fill-ins or segment midpoints).
	Synthesized int
	// Clamped is set when the padded interval was inverted for a short track
	// and the spread fell back to the full [0, duration] range.
	Clamped bool
}

// Select chooses exactly lineCount ascending time points from onsets.
//
// Onsets out of time order are sorted first. A line count of zero or less
// yields an empty selection. A negative or non-finite duration is treated as
// zero.
func Select(onsets Set, lineCount int, duration float64, policy Policy) Selection {
	if lineCount <= 0 {
		return Selection{Times: []float64{}, Strategy: StrategyNone}
	}
	duration = sanitizeDuration(duration)
	policy = policy.sanitized()
	onsets = onsets.sorted()

	switch {
	case len(onsets) == 0:
		lo, hi, clamped := policy.interval(duration)
		return Selection{
			Times:       linspace(lo, hi, lineCount),
			Strategy:    StrategyUniform,
			Synthesized: lineCount,
			Clamped:     clamped,
		}
	case len(onsets) <= lineCount:
		return selectPadded(onsets, lineCount, duration, policy)
	default:
		return selectSegmented(onsets, lineCount, duration)
	}
}

func selectPadded(onsets Set, lineCount int, duration float64, policy Policy) Selection {
	selected := onsets.Times()
	missing := lineCount - len(selected)
	var clamped bool
	if missing > 0 {
		var lo, hi float64
		lo, hi, clamped = policy.interval(duration)
		spread := linspace(lo, hi, missing+2)
		selected = append(selected, spread[1:len(spread)-1]...)
	}
	sort.Float64s(selected)
	// The merged list already holds lineCount values; the cut guards against
	// any future change to the fill-in arithmetic.
	if len(selected) > lineCount {
		selected = selected[:lineCount]
	}
	return Selection{
		Times:       selected,
		Strategy:    StrategyPadded,
		Synthesized: missing,
		Clamped:     clamped,
	}
}

func selectSegmented(onsets Set, lineCount int, duration float64) Selection {
	edges := linspace(0, duration, lineCount+1)
	times := make([]float64, 0, lineCount)
	synthesized := 0
	for i := 0; i < lineCount; i++ {
		segment := onsets.between(edges[i], edges[i+1], i == lineCount-1)
		if best := segment.Strongest(); best >= 0 {
			times = append(times, segment[best].Time)
			continue
		}
		times = append(times, (edges[i]+edges[i+1])/2)
		synthesized++
	}
	return Selection{
		Times:       times,
		Strategy:    StrategySegmented,
		Synthesized: synthesized,
	}
}

// between returns the time-ordered onsets in [start, end), or [start, end]
// when inclusive is set.
func (s Set) between(start, end float64, inclusive bool) Set {
	lo := sort.Search(len(s), func(k int) bool { return s[k].Time >= start })
	hi := sort.Search(len(s), func(k int) bool {
		if inclusive {
			return s[k].Time > end
		}
		return s[k].Time >= end
	})
	if hi < lo {
		hi = lo
	}
	return s[lo:hi]
}

// interval returns the padded range used by the even-spread fallbacks. When the
// track is too short for the padding the full track is used instead.
func (p Policy) interval(duration float64) (float64, float64, bool) {
	lo := p.LeadIn
	hi := duration - p.LeadOut
	if hi < lo {
		return 0, duration, true
	}
	return lo, hi, false
}

func (p Policy) sanitized() Policy {
	if math.IsNaN(p.LeadIn) || p.LeadIn < 0 {
		p.LeadIn = 0
	}
	if math.IsNaN(p.LeadOut) || p.LeadOut < 0 {
		p.LeadOut = 0
	}
	return p
}

func sanitizeDuration(duration float64) float64 {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return 0
	}
	return duration
}

// linspace returns count evenly spaced values from start to stop inclusive.
// A single value is start.
func linspace(start, stop float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	out := make([]float64, count)
	if count == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(count-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[count-1] = stop
	return out
}
