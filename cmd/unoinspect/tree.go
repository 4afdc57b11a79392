package main

import (
	"fmt"
	"io"
	"strings"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/image"
	"github.com/wippyai/uno-inspect/inspect"
	"github.com/wippyai/uno-inspect/snapshot"
)

// node is an entry of the value tree. Children load on first expansion.
type node struct {
	value    unoinspect.Value
	name     string
	children []*node
	depth    int
	expanded bool
	loaded   bool
}

func newRoots(roots []snapshot.Root) []*node {
	nodes := make([]*node, len(roots))
	for i, r := range roots {
		nodes[i] = &node{name: r.Name, value: r.Value}
	}
	return nodes
}

func (n *node) load(sess *inspect.Session) []*node {
	if n.loaded {
		return n.children
	}
	n.loaded = true
	prev := make(map[string]*node, len(n.children))
	for _, c := range n.children {
		prev[c.name] = c
	}
	n.children = nil
	for _, c := range childrenOf(sess, n.value) {
		child := &node{name: c.Name, value: c.Value, depth: n.depth + 1}
		if old, ok := prev[c.Name]; ok {
			child.expanded, child.children = old.expanded, old.children
		}
		n.children = append(n.children, child)
	}
	return n.children
}

// reset marks the subtree for reloading. Expansion state is carried over
// to children with the same name.
func (n *node) reset() {
	for _, c := range n.children {
		c.reset()
	}
	n.loaded = false
}

// childrenOf prefers synthetic children and falls back to struct fields
// and pointer targets of image values.
func childrenOf(sess *inspect.Session, v unoinspect.Value) []inspect.Child {
	if p, _ := sess.Provider(v); p != nil {
		return sess.Children(v)
	}
	iv, ok := v.(image.Value)
	if !ok {
		return nil
	}
	typ, ok := iv.Type().(*image.Type)
	if !ok {
		return nil
	}
	c := typ.Canonical()
	switch c.Kind() {
	case image.KindPointer:
		if p, err := iv.Uint(); err != nil || p == 0 {
			return nil
		}
		target, err := iv.Deref()
		if err != nil {
			return nil
		}
		return []inspect.Child{{Name: "*", Value: target}}
	case image.KindStruct:
		var out []inspect.Child
		for _, name := range fieldNames(c) {
			f, err := iv.Field(name)
			if err != nil {
				continue
			}
			out = append(out, inspect.Child{Name: name, Value: f})
		}
		return out
	default:
		return nil
	}
}

func fieldNames(t *image.Type) []string {
	var names []string
	for _, b := range t.Bases() {
		names = append(names, fieldNames(b.Canonical())...)
	}
	for _, f := range t.Fields() {
		names = append(names, f.Name)
	}
	return names
}

func printTree(w io.Writer, sess *inspect.Session, nodes []*node, expand int) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s = %s\n", strings.Repeat("  ", n.depth), n.name, sess.Render(n.value))
		if n.depth < expand {
			printTree(w, sess, n.load(sess), expand)
		}
	}
}

// visible flattens the expanded part of the tree.
func visible(sess *inspect.Session, nodes []*node, out []*node) []*node {
	for _, n := range nodes {
		out = append(out, n)
		if n.expanded {
			out = visible(sess, n.load(sess), out)
		}
	}
	return out
}
