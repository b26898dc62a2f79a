package htm

import "sort"

// Range is an inclusive, closed range of HTM IDs.
type Range struct {
	Lo, Hi uint64
}

// IDList is a sorted, coalesced list of disjoint, non-adjacent Ranges,
// built incrementally by Add and finalized by Simplify.
type IDList struct {
	Ranges []Range
}

// Add appends a range. Ranges may be added out of order; call Simplify
// once all ranges are added to sort and coalesce them.
func (l *IDList) Add(lo, hi uint64) {
	if lo > hi {
		return
	}
	l.Ranges = append(l.Ranges, Range{Lo: lo, Hi: hi})
}

// Simplify sorts Ranges by Lo and merges any that are adjacent or
// overlapping (hi_i+1 >= lo_{i+1}).
func (l *IDList) Simplify() {
	if len(l.Ranges) < 2 {
		return
	}
	sort.Slice(l.Ranges, func(i, j int) bool { return l.Ranges[i].Lo < l.Ranges[j].Lo })
	out := l.Ranges[:1]
	for _, r := range l.Ranges[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	l.Ranges = out
}

// Count returns the total number of IDs covered by the list.
func (l *IDList) Count() uint64 {
	var n uint64
	for _, r := range l.Ranges {
		n += r.Hi - r.Lo + 1
	}
	return n
}
