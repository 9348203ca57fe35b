package tagger

// Range is the half-open index interval [Start, End) of the batch owned by
// one worker.
type Range struct {
	Start int
	End   int
}

// Len returns the number of units in r.
func (r Range) Len() int { return r.End - r.Start }

// Partition splits [0, n) into at most workers contiguous, non-empty ranges
// whose sizes differ by at most one. The ranges are disjoint and their union
// is exactly [0, n); Run relies on this to write results without locking.
func Partition(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	size, rem := n/workers, n%workers
	ranges := make([]Range, 0, workers)
	start := 0
	for w := 0; w < workers; w++ {
		end := start + size
		if w < rem {
			end++
		}
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}
	return ranges
}
