package ignore

import (
	"github.com/bethropolis/rwalk/internal/pattern"
)

// Node is the rule view of one directory: the rule sets found there plus a
// link to the parent directory's node. Parents never point at children, so
// dropping a node once its subtree is walked releases it.
type Node struct {
	parent *Node
	dir    string
	sets   [pattern.TierCount][]*RuleSet
	count  int
}

// NewNode creates a node for dir on top of parent (nil for the top of a chain).
func NewNode(parent *Node, dir string, sets ...*RuleSet) *Node {
	n := &Node{parent: parent, dir: dir}
	for _, s := range sets {
		if s.Len() == 0 {
			continue
		}
		n.sets[s.tier] = append(n.sets[s.tier], s)
		n.count += s.Len()
	}
	return n
}

// Child creates the node of a subdirectory.
func (n *Node) Child(dir string, sets ...*RuleSet) *Node {
	return NewNode(n, dir, sets...)
}

// Parent returns the enclosing directory's node, nil at the top.
func (n *Node) Parent() *Node { return n.parent }

// Dir returns the directory this node belongs to.
func (n *Node) Dir() string { return n.dir }

// Len returns the number of patterns held by this node alone.
func (n *Node) Len() int { return n.count }

// Matched resolves path against every rule visible from this node.
//
// Tiers are consulted from highest to lowest, and inside a tier from this
// node up to the root, each rule set from its last pattern backwards. The
// first hit decides, which is the same as letting the last matching rule of
// a lowest-to-highest, root-to-leaf scan win.
func (n *Node) Matched(path string, isDir bool) Match {
	for tier := pattern.TierCount - 1; tier >= 0; tier-- {
		for node := n; node != nil; node = node.parent {
			sets := node.sets[tier]
			for i := len(sets) - 1; i >= 0; i-- {
				if m := sets[i].Matched(path, isDir); !m.IsNone() {
					return m
				}
			}
		}
	}
	return Match{}
}

// IsIgnored reports whether the rules visible from n exclude path.
func (n *Node) IsIgnored(path string, isDir bool) bool {
	if n == nil {
		return false
	}
	return n.Matched(path, isDir).IsIgnore()
}
