package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumPureTone(t *testing.T) {
	const (
		n   = 64
		bin = 8
	)
	series := make([]float64, n)
	for i := range series {
		series[i] = math.Sin(2 * math.Pi * bin * float64(i) / n)
	}

	power := PowerSpectrum(series)
	if len(power) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(power))
	}

	maxIdx := 0
	for i := range power {
		if power[i] > power[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != bin {
		t.Errorf("expected peak at bin %d, got %d", bin, maxIdx)
	}

	// A pure tone at a bin center leaks nowhere else.
	for i := range power {
		if i == bin {
			continue
		}
		if power[i] > power[bin]*1e-20 {
			t.Errorf("bin %d holds power %g, expected none", i, power[i])
		}
	}
}

func TestPowerSpectrumPadsToPowerOfTwo(t *testing.T) {
	power := PowerSpectrum(make([]float64, 100))
	if len(power) != 64 {
		t.Errorf("expected 100 samples padded to 128, got %d bins", len(power))
	}
}

func TestDominantFrequency(t *testing.T) {
	const (
		n   = 64
		bin = 8
		dt  = 2.5e-9
	)
	series := make([]float64, n)
	for i := range series {
		series[i] = math.Sin(2 * math.Pi * bin * float64(i) / n)
	}

	got := DominantFrequency(PowerSpectrum(series), dt)
	want := bin / (n * dt)
	if math.Abs(got-want) > want*1e-12 {
		t.Errorf("expected %g Hz, got %g Hz", want, got)
	}
}

func TestDominantFrequencySkipsDC(t *testing.T) {
	series := make([]float64, 32)
	for i := range series {
		series[i] = 5 // pure offset, all power at DC
	}

	power := PowerSpectrum(series)
	if got := DominantFrequency(power, 1e-9); got == 0 {
		t.Error("expected a nonzero frequency even for a DC-only series")
	}
}

func TestDominantFrequencyDegenerateInput(t *testing.T) {
	if got := DominantFrequency(nil, 1e-9); got != 0 {
		t.Errorf("expected 0 for empty spectrum, got %g", got)
	}
	if got := DominantFrequency([]float64{1, 2, 3}, 0); got != 0 {
		t.Errorf("expected 0 for zero time step, got %g", got)
	}
}
