package stego

import (
	"math"
)

// CalculatePSNR compares two channel sequences of 8-bit values.
func CalculatePSNR(original, modified []byte) float64 {
	if len(original) != len(modified) {
		return 0.0
	}

	if len(original) == 0 {
		return 0.0
	}

	var mse float64
	for i := range original {
		diff := float64(original[i]) - float64(modified[i])
		mse += diff * diff
	}
	mse /= float64(len(original))

	// If MSE is 0, signals are identical
	if mse == 0 {
		return math.Inf(1)
	}

	// PSNR = 20 * log10(MAX_SIGNAL_VALUE / sqrt(MSE))
	maxSignalValue := 255.0
	return 20 * math.Log10(maxSignalValue/math.Sqrt(mse))
}

// LSBPSNR is the PSNR of a carrier of n values after changed of them had
// their least significant bit flipped. Each flip is an error of exactly 1.
func LSBPSNR(changed, n int) float64 {
	if n == 0 || changed == 0 {
		return math.Inf(1)
	}
	mse := float64(changed) / float64(n)
	return 20 * math.Log10(255.0/math.Sqrt(mse))
}

func ValidatePSNR(psnr float64, threshold float64) bool {
	if math.IsInf(psnr, 1) {
		return true // Infinite PSNR is always good
	}
	return psnr >= threshold
}
