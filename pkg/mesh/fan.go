package mesh

// fan is an intrusive singly-linked list of items hanging off an owner:
// the edges around a vertex or the triangles along an edge. Each item
// carries one link per owner it can belong to, so every step has to pick
// the link that belongs to the owner being walked.
type fan[O, I ~int32] struct {
	// head returns the owner's root field, nil for a bad owner.
	head func(o O) *I
	// link returns the item's next field for owner o, nil when the item
	// does not reference o or does not exist.
	link func(i I, o O) *I
	// size bounds a walk so a cyclic fan cannot loop forever.
	size func() int
}

// push links item i at the head of o's fan.
func (f fan[O, I]) push(o O, i I) bool {
	h, l := f.head(o), f.link(i, o)
	if h == nil || l == nil {
		return false
	}
	*l = *h
	*h = i
	return true
}

// unlink removes item i from o's fan by patching the link that points at
// it. It reports false when i is not in the fan or the fan is broken.
func (f fan[O, I]) unlink(o O, i I) bool {
	p := f.head(o)
	if p == nil {
		return false
	}
	for steps := 0; *p != I(-1); steps++ {
		if steps > f.size() {
			return false
		}
		cur := *p
		next := f.link(cur, o)
		if next == nil {
			return false
		}
		if cur == i {
			*p = *next
			*next = I(-1)
			return true
		}
		p = next
	}
	return false
}

// walk calls fn for each item in o's fan until fn returns false. It
// reports false when the fan holds an item that does not reference o or
// the fan does not terminate.
func (f fan[O, I]) walk(o O, fn func(i I) bool) bool {
	p := f.head(o)
	if p == nil {
		return false
	}
	for cur, steps := *p, 0; cur != I(-1); steps++ {
		if steps > f.size() {
			return false
		}
		next := f.link(cur, o)
		if next == nil {
			return false
		}
		if !fn(cur) {
			return true
		}
		cur = *next
	}
	return true
}

// count returns how many times i occurs in o's fan, or -1 when the fan is
// broken.
func (f fan[O, I]) count(o O, i I) int {
	n := 0
	ok := f.walk(o, func(x I) bool {
		if x == i {
			n++
		}
		return true
	})
	if !ok {
		return -1
	}
	return n
}

// length returns the number of items in o's fan, or -1 when it is broken.
func (f fan[O, I]) length(o O) int {
	n := 0
	if !f.walk(o, func(I) bool { n++; return true }) {
		return -1
	}
	return n
}
