package msgraph

import (
	"sort"
	"strings"
)

// NodeKind tells what entity a tree node stands for.
type NodeKind int

const (
	RootNode NodeKind = iota
	NotebookNode
	SectionNode
	PageNode
)

// Node is one entry in the display tree built from fetched notebooks.
type Node struct {
	ID       string
	Parent   *Node
	Children []*Node
	kind     NodeKind
	name     string
}

func newNode(id, name string, kind NodeKind) *Node {
	return &Node{
		ID:       id,
		Children: make([]*Node, 0),
		kind:     kind,
		name:     name,
	}
}

func (n *Node) Kind() NodeKind {
	return n.kind
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Root() bool {
	return n.kind == RootNode
}

func (n *Node) Leaf() bool {
	return len(n.Children) == 0 && !n.Root()
}

// addChild adds a child node and sets its Parent field.
func (n *Node) addChild(child *Node) {
	n.Children = append(n.Children, child)
	child.Parent = n
}

// BuildTree arranges notebooks with their embedded sections and pages
// into a display tree rooted at an unnamed root node.
func BuildTree(notebooks []*Notebook) *Node {
	root := newNode("", "", RootNode)
	for _, nb := range notebooks {
		bn := newNode(nb.ID, nb.DisplayName, NotebookNode)
		for _, sec := range nb.Sections {
			sn := newNode(sec.ID, sec.DisplayName, SectionNode)
			for _, p := range sec.Pages {
				sn.addChild(newNode(p.ID, p.Title, PageNode))
			}
			bn.addChild(sn)
		}
		root.addChild(bn)
	}
	return root
}

// NodeFilter decides whether a node is kept by Filtered.
type NodeFilter func(*Node) bool

// MatchName matches nodes whose name starts with the given prefix,
// ignoring case. A trailing "*" on the prefix is allowed and ignored,
// consistent with the server-side filter style.
func MatchName(prefix string) NodeFilter {
	prefix = strings.ToLower(strings.TrimSuffix(prefix, "*"))
	return func(n *Node) bool {
		return strings.HasPrefix(strings.ToLower(n.name), prefix)
	}
}

// IsKind matches nodes of the given kind.
func IsKind(k NodeKind) NodeFilter {
	return func(n *Node) bool {
		return n.kind == k
	}
}

// Filtered returns a copy of the tree containing the nodes that match
// all given filters, along with their ancestors.
func (n *Node) Filtered(filters ...NodeFilter) *Node {
	rv := newNode(n.ID, n.name, n.kind)

	for _, c := range n.Children {
		if c.matches(filters...) {
			rv.addChild(c)
			continue
		}
		sub := c.Filtered(filters...)
		if len(sub.Children) != 0 {
			rv.addChild(sub)
		}
	}

	return rv
}

func (n *Node) matches(filters ...NodeFilter) bool {
	for _, f := range filters {
		if !f(n) {
			return false
		}
	}
	return true
}

// Walk applies f to every node in depth-first order, aborting on the
// first error.
func (n *Node) Walk(f func(n *Node) error) error {
	if !n.Root() {
		if err := f(n); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := c.Walk(f); err != nil {
			return err
		}
	}
	return nil
}

// Sort sorts the subtree starting at this node by the given rule.
// Sorting is in-place.
func (n *Node) Sort(compare func(*Node, *Node) bool) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return compare(n.Children[i], n.Children[j])
	})
	for _, c := range n.Children {
		c.Sort(compare)
	}
}

// DefaultSort orders nodes by name, case-insensitive.
func DefaultSort(one, other *Node) bool {
	return strings.ToLower(one.name) < strings.ToLower(other.name)
}
