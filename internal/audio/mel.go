package audio

import "math"

// melFilterbank holds triangular Slaney-normalized mel filters. Each band
// stores only its non-zero span of FFT bins.
type melFilterbank struct {
	bands []melBand
}

type melBand struct {
	start   int
	weights []float64
}

func newMelFilterbank(sampleRate, nfft, nMels int) melFilterbank {
	bins := nfft/2 + 1
	nyquist := float64(sampleRate) / 2
	fftFreqs := make([]float64, bins)
	for k := range fftFreqs {
		fftFreqs[k] = nyquist * float64(k) / float64(bins-1)
	}

	lo, hi := hzToMel(0), hzToMel(nyquist)
	edges := make([]float64, nMels+2)
	for i := range edges {
		edges[i] = melToHz(lo + (hi-lo)*float64(i)/float64(nMels+1))
	}

	bank := melFilterbank{bands: make([]melBand, nMels)}
	for m := 0; m < nMels; m++ {
		left, center, right := edges[m], edges[m+1], edges[m+2]
		norm := 2 / (right - left)
		band := melBand{start: -1}
		for k, f := range fftFreqs {
			lower := (f - left) / (center - left)
			upper := (right - f) / (right - center)
			w := math.Max(0, math.Min(lower, upper))
			if w <= 0 {
				if band.start >= 0 {
					break
				}
				continue
			}
			if band.start < 0 {
				band.start = k
			}
			band.weights = append(band.weights, w*norm)
		}
		if band.start < 0 {
			band.start = 0
		}
		bank.bands[m] = band
	}
	return bank
}

func (b melFilterbank) apply(power []float64) []float64 {
	out := make([]float64, len(b.bands))
	for m, band := range b.bands {
		var sum float64
		for i, w := range band.weights {
			sum += w * power[band.start+i]
		}
		out[m] = sum
	}
	return out
}

// Slaney mel scale: linear below 1kHz, logarithmic above.
const (
	melLinearStep = 200.0 / 3
	melBreakHz    = 1000.0
	melBreak      = melBreakHz / melLinearStep
)

var melLogStep = math.Log(6.4) / 27

func hzToMel(hz float64) float64 {
	if hz >= melBreakHz {
		return melBreak + math.Log(hz/melBreakHz)/melLogStep
	}
	return hz / melLinearStep
}

func melToHz(mel float64) float64 {
	if mel >= melBreak {
		return melBreakHz * math.Exp(melLogStep*(mel-melBreak))
	}
	return mel * melLinearStep
}
