package audio

import (
	"math"
	"reflect"
	"testing"
)

func defaultPeakConfig() peakConfig {
	return peakConfig{preMax: 1, postMax: 1, preAvg: 4, postAvg: 5, wait: 1, delta: 0.07}
}

func TestPeakWindowsFromDefaults(t *testing.T) {
	if got := DefaultParams().peakWindows(); got != defaultPeakConfig() {
		t.Fatalf("unexpected peak windows: %+v", got)
	}
}

func TestPickPeaks(t *testing.T) {
	x := []float64{0, 0.1, 1.0, 0.2, 0, 0, 0, 0, 0.9, 0.1, 0, 0, 0, 0}
	got := pickPeaks(x, defaultPeakConfig())
	if want := []int{2, 8}; !reflect.DeepEqual(got, want) {
		t.Fatalf("pickPeaks = %v, want %v", got, want)
	}
}

func TestPickPeaksWait(t *testing.T) {
	x := []float64{0, 0, 1.0, 0, 0.9, 0, 0, 0, 0, 0}
	cfg := defaultPeakConfig()
	if got := pickPeaks(x, cfg); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("expected both peaks with wait=1, got %v", got)
	}
	cfg.wait = 3
	if got := pickPeaks(x, cfg); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("expected second peak suppressed with wait=3, got %v", got)
	}
}

func TestPickPeaksDelta(t *testing.T) {
	x := []float64{0.5, 0.52, 0.5, 0.5, 0.5, 0.5}
	if got := pickPeaks(x, defaultPeakConfig()); len(got) != 0 {
		t.Fatalf("expected no peaks on a flat series, got %v", got)
	}
	if got := pickPeaks(nil, defaultPeakConfig()); len(got) != 0 {
		t.Fatalf("expected no peaks for empty input, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	got := normalize([]float64{2, 4, 6})
	if !reflect.DeepEqual(got, []float64{0, 0.5, 1}) {
		t.Fatalf("unexpected normalized values %v", got)
	}
	if got := normalize([]float64{3, 3}); !reflect.DeepEqual(got, []float64{0, 0}) {
		t.Fatalf("expected zeros for constant input, got %v", got)
	}
}

func TestMelScaleRoundTrip(t *testing.T) {
	if got := hzToMel(1000); math.Abs(got-15) > 1e-9 {
		t.Fatalf("expected 1kHz at mel 15, got %v", got)
	}
	for _, hz := range []float64{0, 200, 999, 1000, 4000, 11025} {
		if back := melToHz(hzToMel(hz)); math.Abs(back-hz) > 1e-6 {
			t.Fatalf("round trip for %v Hz gave %v", hz, back)
		}
	}
}

func TestMelFilterbankShape(t *testing.T) {
	bank := newMelFilterbank(22050, 2048, 128)
	if len(bank.bands) != 128 {
		t.Fatalf("expected 128 bands, got %d", len(bank.bands))
	}
	prevStart := -1
	for m, band := range bank.bands {
		if len(band.weights) == 0 {
			continue
		}
		if band.start < prevStart {
			t.Fatalf("band %d starts before band %d", m, m-1)
		}
		prevStart = band.start
		for _, w := range band.weights {
			if w <= 0 {
				t.Fatalf("band %d has non-positive weight %v", m, w)
			}
		}
		if band.start+len(band.weights) > 1025 {
			t.Fatalf("band %d overruns the spectrum", m)
		}
	}
	power := make([]float64, 1025)
	for i := range power {
		power[i] = 1
	}
	for m, v := range bank.apply(power) {
		if v < 0 {
			t.Fatalf("band %d produced negative energy", m)
		}
	}
}

func TestParamsValidateAndFingerprint(t *testing.T) {
	params := DefaultParams()
	if err := params.Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	other := params
	other.HopLength = 256
	if params.Fingerprint() == other.Fingerprint() {
		t.Fatal("expected fingerprint to change with hop length")
	}
	bad := params
	bad.HopLength = 4096
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for hop larger than n_fft")
	}
	bad = params
	bad.Delta = 2
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for delta above 1")
	}
}
