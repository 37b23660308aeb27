// Package entropy scores byte randomness with Shannon entropy.
package entropy

import "math"

// SampleSize is the number of leading bytes scored per file.
const SampleSize = 64 * 1024

const (
	// LowThreshold separates text/code from mixed content.
	LowThreshold = 4.0
	// HighThreshold is where the High label starts.
	HighThreshold = 7.0
	// EncryptedThreshold is where content is flagged as likely encrypted or
	// compressed. Deliberately distinct from HighThreshold.
	EncryptedThreshold = 7.5
)

// Band is an entropy classification label.
type Band string

const (
	BandLow    Band = "Low"
	BandMedium Band = "Medium"
	BandHigh   Band = "High"
)

// Description returns a short human label for the band.
func (b Band) Description() string {
	switch b {
	case BandLow:
		return "text/code"
	case BandMedium:
		return "mixed"
	case BandHigh:
		return "compressed/encrypted"
	}
	return ""
}

// Sample returns at most the first SampleSize bytes of data.
func Sample(data []byte) []byte {
	if len(data) > SampleSize {
		return data[:SampleSize]
	}
	return data
}

// Shannon returns the entropy of data in bits per byte, in [0, 8].
// Empty input scores 0.
func Shannon(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var freq [256]int
	for _, b := range data {
		freq[b]++
	}

	total := float64(len(data))
	var e float64
	for _, n := range freq {
		if n == 0 {
			continue
		}
		p := float64(n) / total
		e -= p * math.Log2(p)
	}

	// A single distinct value yields -1*log2(1) = -0; normalize the sign.
	if e <= 0 {
		return 0
	}
	if e > 8 {
		return 8
	}
	return e
}

// Classify maps an entropy value to its band.
func Classify(e float64) Band {
	switch {
	case e < LowThreshold:
		return BandLow
	case e < HighThreshold:
		return BandMedium
	default:
		return BandHigh
	}
}

// LikelyEncrypted reports whether e crosses EncryptedThreshold.
func LikelyEncrypted(e float64) bool {
	return e >= EncryptedThreshold
}
