// Package analysis provides frequency-domain views of saved run data.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |FFT|^2 of the series over the positive
// frequencies. The input is zero-padded to the next power of two.
func PowerSpectrum(series []float64) []float64 {
	n := 1
	for n < len(series) {
		n <<= 1
	}
	padded := make([]float64, n)
	copy(padded, series)

	spectrum := fft.FFTReal(padded)
	power := make([]float64, n/2)
	for i := range power {
		a := cmplx.Abs(spectrum[i])
		power[i] = a * a
	}
	return power
}

// DominantFrequency locates the strongest nonzero bin of a power spectrum
// computed from samples taken deltaT apart and returns its frequency in
// hertz. The DC bin is skipped.
func DominantFrequency(power []float64, deltaT float64) float64 {
	if len(power) < 2 || deltaT <= 0 {
		return 0
	}
	maxIdx := 1
	for i := 2; i < len(power); i++ {
		if power[i] > power[maxIdx] {
			maxIdx = i
		}
	}
	n := 2 * len(power) // padded series length
	return float64(maxIdx) / (float64(n) * deltaT)
}
