// Package preview renders a path list as a directory tree for the terminal.
package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/stubtree-labs/stubtree/internal/pathspec"
)

var (
	rootStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	dirStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type node struct {
	name     string
	children []*node
	byName   map[string]*node
	file     bool
	existing bool
}

func newNode(name string) *node {
	return &node{name: name, byName: make(map[string]*node)}
}

func (n *node) child(name string) *node {
	if c, ok := n.byName[name]; ok {
		return c
	}
	c := newNode(name)
	n.byName[name] = c
	n.children = append(n.children, c)
	return c
}

// Tree renders paths under a root label. Paths present in existing (keyed by
// pathspec.Clean form) are marked as already on disk. Invalid paths are skipped.
func Tree(root string, paths pathspec.PathSpec, existing map[string]bool) string {
	top := newNode(root)
	for _, p := range paths {
		if pathspec.Check(p) != nil {
			continue
		}
		clean := pathspec.Clean(p)
		n := top
		for _, seg := range strings.Split(clean, "/") {
			n = n.child(seg)
		}
		n.file = true
		n.existing = existing[clean]
	}

	t := tree.Root(rootStyle.Render(root)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)
	for _, c := range top.children {
		t.Child(build(c))
	}
	return t.String()
}

func build(n *node) any {
	if n.file && len(n.children) == 0 {
		label := fileStyle.Render(n.name)
		if n.existing {
			label += " " + mutedStyle.Render("(exists)")
		}
		return label
	}
	sub := tree.Root(dirStyle.Render(n.name + "/")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)
	for _, c := range n.children {
		sub.Child(build(c))
	}
	return sub
}
