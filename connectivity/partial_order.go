package connectivity

// Node is one element of a neuron's partial order. It is either a branch
// marker, whose children are parallel continuations, or a concrete node
// holding an anatomical entity followed by its continuations.
type Node struct {
	entity   AnatomicalEntity
	concrete bool
	children []Node
}

// Branch returns a branch marker fanning out into children.
func Branch(children ...Node) Node {
	return Node{children: children}
}

// Concrete returns a node for entity followed by children.
func Concrete(entity AnatomicalEntity, children ...Node) Node {
	return Node{entity: entity, concrete: true, children: children}
}

// Entity returns the node's entity. ok is false for a branch marker.
func (n Node) Entity() (entity AnatomicalEntity, ok bool) {
	return n.entity, n.concrete
}

// IsBranch reports whether n is a branch marker.
func (n Node) IsBranch() bool { return !n.concrete }

// Children returns the node's continuations in order.
func (n Node) Children() []Node { return n.children }

// IsLeaf reports whether n has no continuations.
func (n Node) IsLeaf() bool { return len(n.children) == 0 }

// IsEmpty reports whether n describes no connectivity at all: a branch
// marker with nothing under it.
func (n Node) IsEmpty() bool { return n.IsBranch() && n.IsLeaf() }

// Size returns the number of concrete nodes in the tree rooted at n.
func (n Node) Size() int {
	size := 0
	if n.concrete {
		size = 1
	}
	for _, c := range n.children {
		size += c.Size()
	}
	return size
}
