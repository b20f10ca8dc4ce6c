// Package containers - running mean accumulator.
package containers

// Welford keeps an online mean without storing the samples. The zero
// value is ready to use.
type Welford struct {
	count uint64
	mean  float64
}

// Update folds x into the mean.
func (w *Welford) Update(x float64) {
	w.count++
	w.mean += (x - w.mean) / float64(w.count)
}

// Mean returns the current mean, 0 when no samples were seen.
func (w *Welford) Mean() float64 { return w.mean }

// Reset discards all samples.
func (w *Welford) Reset() {
	w.count = 0
	w.mean = 0
}
