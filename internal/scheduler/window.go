package scheduler

import "github.com/abhisek/mathiz-arcade/internal/bank"

// window walks a bank in fixed-size, non-overlapping slices. When the next
// slice would run past the end of the bank it wraps to the first slice.
type window struct {
	items []bank.Item
	size  int
	index int
}

func newWindow(items []bank.Item, size int) window {
	return window{items: items, size: size}
}

// bounds returns the half-open range of the slice at index, wrapping to
// slice zero when that range overruns the bank. The end is clamped so a
// bank shorter than one window yields the whole bank.
func (w window) bounds(index int) (start, end, used int) {
	start = index * w.size
	if start+w.size > len(w.items) {
		index = 0
		start = 0
	}
	end = min(start+w.size, len(w.items))
	return start, end, index
}

// next returns a copy of the current slice and advances the index.
func (w *window) next() []bank.Item {
	start, end, used := w.bounds(w.index)
	w.index = used + 1

	out := make([]bank.Item, end-start)
	copy(out, w.items[start:end])
	return out
}

// take draws slices until it has n items, skipping keys in skip and keys
// it already returned. It gives up after one pass over every slice, so a
// bank with too few eligible items yields fewer than n.
func (w *window) take(n int, skip map[bank.Key]bool) []bank.Item {
	seen := make(map[bank.Key]bool, len(skip)+n)
	for k := range skip {
		seen[k] = true
	}

	out := make([]bank.Item, 0, n)
	for range w.slices() {
		for _, it := range w.next() {
			if len(out) == n {
				return out
			}
			if seen[it.Key()] {
				continue
			}
			seen[it.Key()] = true
			out = append(out, it)
		}
		if len(out) == n {
			break
		}
	}
	return out
}

// slices is how many distinct slices next cycles through.
func (w window) slices() int {
	return max(len(w.items)/w.size, 1)
}
