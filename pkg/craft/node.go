package craft

// Node is one item in a requirement tree.
//
// In a naive expansion tree Amount is the total quantity needed; in a
// deficit tree it is the quantity still missing at that point. Raw items are
// leaves.
type Node struct {
	Name        string  `json:"name"`
	Amount      int     `json:"amount"`
	Ingredients []*Node `json:"ingredients"`
}

func newNode(name string, amount int) *Node {
	return &Node{Name: name, Amount: amount, Ingredients: []*Node{}}
}

// IsLeaf reports whether n has no ingredients.
func (n *Node) IsLeaf() bool {
	return len(n.Ingredients) == 0
}

// Walk visits n and its descendants depth-first in ingredient order.
// If fn returns false the node's children are skipped.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Ingredients {
		c.walk(fn, depth+1)
	}
}

// Size returns the number of nodes in the tree.
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Leaves sums leaf amounts per item. Leaves with a zero amount are omitted.
func (n *Node) Leaves() map[string]int {
	out := make(map[string]int)
	n.Walk(func(node *Node, _ int) bool {
		if node.IsLeaf() && node.Amount > 0 {
			out[node.Name] += node.Amount
		}
		return true
	})
	return out
}

// AllZero reports whether every node in the tree has a zero amount.
func (n *Node) AllZero() bool {
	zero := true
	n.Walk(func(node *Node, _ int) bool {
		if node.Amount != 0 {
			zero = false
		}
		return zero
	})
	return zero
}
