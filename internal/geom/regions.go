package geom

// Regions accumulates dirty rectangles between repaints. Overlapping
// rectangles are merged so the list stays short during a long stroke.
type Regions struct {
	rects []Rect
}

// Add records a dirty rectangle. Empty rectangles are ignored.
func (rg *Regions) Add(r Rect) {
	if r.Empty() {
		return
	}

	for i, existing := range rg.rects {
		if existing.Overlaps(r) {
			rg.rects[i] = existing.Union(r)
			return
		}
	}
	rg.rects = append(rg.rects, r)
}

// Len returns the number of disjoint regions recorded.
func (rg *Regions) Len() int {
	return len(rg.rects)
}

// Take returns the union of all recorded regions and resets the tracker.
func (rg *Regions) Take() Rect {
	var out Rect
	for _, r := range rg.rects {
		out = out.Union(r)
	}
	rg.rects = rg.rects[:0]
	return out
}
