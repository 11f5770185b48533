// Package tree renders the folder structure of a project's recognized
// source files. It backs the map command: the same lister that feeds
// the index decides what appears, so the tree always matches what a
// scan would pick up.
package tree

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codescout/scout/internal/scan"
)

// Node is one entry in the folder tree. Path is relative to the project
// root in slash form; the root node's path is ".".
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Children []*Node
}

// Build lists recognized source files under root and arranges them into
// a directory tree. Directories sort before files at each level, both
// alphabetically.
func Build(root string, lister *scan.Lister) (*Node, error) {
	if lister == nil {
		lister = &scan.Lister{}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	res, err := lister.List(absRoot)
	if err != nil {
		return nil, err
	}

	rootNode := &Node{Name: filepath.Base(absRoot), Path: ".", IsDir: true}
	index := map[string]*Node{".": rootNode}

	for _, path := range res.Paths {
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		parent := rootNode
		parts := strings.Split(rel, "/")
		for i, part := range parts[:len(parts)-1] {
			dirPath := strings.Join(parts[:i+1], "/")
			node, ok := index[dirPath]
			if !ok {
				node = &Node{Name: part, Path: dirPath, IsDir: true}
				index[dirPath] = node
				parent.Children = append(parent.Children, node)
			}
			parent = node
		}
		parent.Children = append(parent.Children, &Node{Name: parts[len(parts)-1], Path: rel})
	}

	sortTree(rootNode)
	return rootNode, nil
}

// sortTree orders children directories-first, alphabetical within each
// group.
func sortTree(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, child := range n.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// Render draws the tree with box-drawing connectors. Directory names
// carry a trailing slash.
func Render(root *Node) string {
	var b strings.Builder
	name := root.Name
	if name == "" {
		name = "."
	}
	b.WriteString(name + "/\n")
	renderChildren(&b, root.Children, "")
	return b.String()
}

func renderChildren(b *strings.Builder, children []*Node, prefix string) {
	for i, child := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		name := child.Name
		if child.IsDir {
			name += "/"
		}
		b.WriteString(prefix + connector + name + "\n")
		renderChildren(b, child.Children, childPrefix)
	}
}

// Stats counts the directories and files below root. The root itself is
// not counted.
func Stats(root *Node) (dirs, files int) {
	for _, child := range root.Children {
		if child.IsDir {
			d, f := Stats(child)
			dirs += d + 1
			files += f
		} else {
			files++
		}
	}
	return dirs, files
}
