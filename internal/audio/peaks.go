package audio

type peakConfig struct {
	preMax  int
	postMax int
	preAvg  int
	postAvg int
	wait    int
	delta   float64
}

// pickPeaks returns the frames n where x[n] is the maximum of
// x[n-preMax : n+postMax], is at least delta above the mean of
// x[n-preAvg : n+postAvg], and lies more than wait frames after the
// previous peak. Windows are clipped at the series bounds and zero-valued
// frames are never peaks.
func pickPeaks(x []float64, cfg peakConfig) []int {
	peaks := []int{}
	last := -cfg.wait - 1
	for n, v := range x {
		if v <= 0 {
			continue
		}
		if v < windowMax(x, n-cfg.preMax, n+cfg.postMax) {
			continue
		}
		if v < windowMean(x, n-cfg.preAvg, n+cfg.postAvg)+cfg.delta {
			continue
		}
		if n <= last+cfg.wait {
			continue
		}
		peaks = append(peaks, n)
		last = n
	}
	return peaks
}

func clipWindow(length, lo, hi int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > length {
		hi = length
	}
	return lo, hi
}

func windowMax(x []float64, lo, hi int) float64 {
	lo, hi = clipWindow(len(x), lo, hi)
	if hi <= lo {
		return 0
	}
	best := x[lo]
	for _, v := range x[lo+1 : hi] {
		if v > best {
			best = v
		}
	}
	return best
}

func windowMean(x []float64, lo, hi int) float64 {
	lo, hi = clipWindow(len(x), lo, hi)
	if hi <= lo {
		return 0
	}
	var sum float64
	for _, v := range x[lo:hi] {
		sum += v
	}
	return sum / float64(hi-lo)
}
