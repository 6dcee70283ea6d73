package dom

import "fmt"

// Region is the contiguous span of sibling nodes a mount point owns.
//
// All three mutation methods are positional against the live span and must
// be called only by the owning mount point while a binding is active.
// A nil ref means the region boundary: InsertAfter(nil, n) inserts at the
// region start, MoveBefore(n, nil) moves n to the region end.
type Region interface {
	// InsertAfter inserts n immediately after ref, or at the region
	// start when ref is nil.
	InsertAfter(ref, n *Node) error

	// Remove detaches n from the region.
	Remove(n *Node) error

	// MoveBefore repositions n immediately before ref, or at the region
	// end when ref is nil. The node instance is preserved.
	MoveBefore(n, ref *Node) error

	// Nodes returns the region's current nodes in order, excluding
	// sentinels.
	Nodes() []*Node
}

// ChildRegion is the in-memory Region implementation: a span of a parent
// node's children bounded by two invisible anchor nodes.
type ChildRegion struct {
	parent *Node
	start  *Node
	end    *Node
}

// NewRegion appends a new empty region to the parent's children and
// returns it.
func NewRegion(parent *Node) *ChildRegion {
	r := &ChildRegion{
		parent: parent,
		start:  &Node{Kind: KindAnchor},
		end:    &Node{Kind: KindAnchor},
	}
	parent.Children = append(parent.Children, r.start, r.end)
	return r
}

// indexOf returns the position of n in the parent's children, or -1.
func (r *ChildRegion) indexOf(n *Node) int {
	for i, c := range r.parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// bounds returns the child indexes of the start and end sentinels.
func (r *ChildRegion) bounds() (int, int) {
	return r.indexOf(r.start), r.indexOf(r.end)
}

// insertAt splices n into the parent's children at pos.
func (r *ChildRegion) insertAt(pos int, n *Node) {
	children := append(r.parent.Children, nil)
	copy(children[pos+1:], children[pos:])
	children[pos] = n
	r.parent.Children = children
}

// InsertAfter implements Region.
func (r *ChildRegion) InsertAfter(ref, n *Node) error {
	lo, hi := r.bounds()
	pos := lo + 1
	if ref != nil {
		ri := r.indexOf(ref)
		if ri <= lo || ri >= hi {
			return fmt.Errorf("dom: insert anchor not in region")
		}
		pos = ri + 1
	}
	r.insertAt(pos, n)
	return nil
}

// Remove implements Region.
func (r *ChildRegion) Remove(n *Node) error {
	lo, hi := r.bounds()
	i := r.indexOf(n)
	if i <= lo || i >= hi {
		return fmt.Errorf("dom: node not in region")
	}
	r.parent.Children = append(r.parent.Children[:i], r.parent.Children[i+1:]...)
	return nil
}

// MoveBefore implements Region.
func (r *ChildRegion) MoveBefore(n, ref *Node) error {
	if err := r.Remove(n); err != nil {
		return err
	}

	lo, hi := r.bounds()
	pos := hi
	if ref != nil {
		ri := r.indexOf(ref)
		if ri <= lo || ri >= hi {
			// Restore n at the end so the region stays consistent.
			r.insertAt(hi, n)
			return fmt.Errorf("dom: move anchor not in region")
		}
		pos = ri
	}
	r.insertAt(pos, n)
	return nil
}

// Nodes implements Region.
func (r *ChildRegion) Nodes() []*Node {
	lo, hi := r.bounds()
	if lo < 0 || hi < 0 || hi <= lo+1 {
		return nil
	}
	out := make([]*Node, hi-lo-1)
	copy(out, r.parent.Children[lo+1:hi])
	return out
}

// Detach removes the region's span, sentinels included, from the parent.
// Used when the surrounding render tree unmounts the whole binding.
func (r *ChildRegion) Detach() {
	lo, hi := r.bounds()
	if lo < 0 || hi < 0 {
		return
	}
	r.parent.Children = append(r.parent.Children[:lo], r.parent.Children[hi+1:]...)
}
