package scheduler

const (
	kib = 1 << 10
	mib = 1 << 20
)

// WriteLimit is the concurrency used for organize writes. Writes are latency
// bound, so the cap is wide.
const WriteLimit = 32

var tiers = []struct {
	below int64
	limit int
}{
	{64 * kib, 64},
	{1 * mib, 32},
	{16 * mib, 16},
	{128 * mib, 8},
}

// TuneLimit picks a concurrency limit from the average item size. Small
// items get deep pipelining; the result never grows as avgSize grows.
func TuneLimit(avgSize int64) int {
	for _, t := range tiers {
		if avgSize < t.below {
			return t.limit
		}
	}
	return 4
}

// AverageSize returns the mean of sizes, or 0 for an empty slice.
func AverageSize(sizes []int64) int64 {
	if len(sizes) == 0 {
		return 0
	}
	var sum int64
	for _, s := range sizes {
		sum += s
	}
	return sum / int64(len(sizes))
}
