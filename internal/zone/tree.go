package zone

import "github.com/Algernon0401/deco3801-team77-wavescape/internal/object"

// Node is a point of a zone's tree. The root sits at the zone center and
// holds no object.
type Node struct {
	X, Y     float64
	Object   *object.Tracked
	Children []*Node
}

// Flat builds a one-level tree: the zone center with one child per object.
func Flat(r object.Rect, objs []*object.Tracked) *Node {
	cx, cy := r.Center()
	root := &Node{X: cx, Y: cy, Children: make([]*Node, 0, len(objs))}
	for _, o := range objs {
		x, y := o.Center()
		root.Children = append(root.Children, &Node{X: x, Y: y, Object: o})
	}
	return root
}

// Edges calls fn for every parent-child pair of the tree.
func (n *Node) Edges(fn func(parent, child *Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		fn(n, c)
		c.Edges(fn)
	}
}
