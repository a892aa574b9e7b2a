package audio

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// strengthEnvelope returns one onset strength value per STFT frame.
//
// Frames are centered: the signal is zero padded by NFFT/2 on both sides, so
// frame t is centered on sample t*hop. The flux series is shifted right by
// the lag plus the centering offset and truncated to the frame count, which
// leaves the leading frames at zero.
func strengthEnvelope(samples []float64, p Params) []float64 {
	melDB := logMelSpectrogram(samples, p)
	frames := len(melDB)
	env := make([]float64, frames)
	if frames <= Lag {
		return env
	}
	shift := Lag + p.NFFT/(2*p.HopLength)
	for t := 0; t+Lag < frames; t++ {
		dst := t + shift
		if dst >= frames {
			break
		}
		cur, prev := melDB[t+Lag], melDB[t]
		var sum float64
		for m := range cur {
			if d := cur[m] - prev[m]; d > 0 {
				sum += d
			}
		}
		env[dst] = sum / float64(len(cur))
	}
	return env
}

// logMelSpectrogram returns frames x mels of power in decibels, floored at
// TopDB below the global peak.
func logMelSpectrogram(samples []float64, p Params) [][]float64 {
	bank := newMelFilterbank(p.SampleRate, p.NFFT, p.NMels)
	window := hannWindow(p.NFFT)
	fft := fourier.NewFFT(p.NFFT)

	half := p.NFFT / 2
	frameCount := 1 + len(samples)/p.HopLength
	frame := make([]float64, p.NFFT)
	power := make([]float64, half+1)
	coeffs := make([]complex128, half+1)

	out := make([][]float64, frameCount)
	peak := math.Inf(-1)
	for t := range out {
		start := t*p.HopLength - half
		for i := range frame {
			idx := start + i
			if idx < 0 || idx >= len(samples) {
				frame[i] = 0
				continue
			}
			frame[i] = samples[idx] * window[i]
		}
		coeffs = fft.Coefficients(coeffs, frame)
		for k, c := range coeffs {
			re, im := real(c), imag(c)
			power[k] = re*re + im*im
		}
		mel := bank.apply(power)
		for m, v := range mel {
			db := 10 * math.Log10(math.Max(amin, v))
			mel[m] = db
			if db > peak {
				peak = db
			}
		}
		out[t] = mel
	}

	floor := peak - TopDB
	for _, mel := range out {
		for m, v := range mel {
			if v < floor {
				mel[m] = floor
			}
		}
	}
	return out
}

// hannWindow returns the periodic Hann window used for spectral analysis.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// normalize rescales values to [0, 1]. A constant series maps to zeros.
func normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}
