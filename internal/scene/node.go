// Package scene is the retained drawing tree the effect engines attach to,
// plus the frame clock and drawing surface they are driven by.
//
// Nothing here is safe for concurrent use: the tree is built, mutated and
// rendered on the frame thread only.
package scene

import (
	"sort"

	"github.com/google/uuid"
)

// Node is anything that can live in a Container.
type Node interface {
	base() *nodeBase
	// Destroy detaches the node and releases the graphical resource it holds.
	Destroy()
}

// nodeBase carries the transform and tree links every node shares.
type nodeBase struct {
	id      uuid.UUID
	Name    string
	X, Y    float64
	Alpha   float64
	Visible bool
	ZIndex  int

	parent    *Container
	destroyed bool
}

func newBase(name string) nodeBase {
	return nodeBase{id: uuid.New(), Name: name, Alpha: 1, Visible: true}
}

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) ID() uuid.UUID { return b.id }
func (b *nodeBase) Parent() *Container { return b.parent }
func (b *nodeBase) Destroyed() bool { return b.destroyed }
func (b *nodeBase) SetPosition(x, y float64) { b.X, b.Y = x, y }

// detach removes the node from its parent, if any.
func (b *nodeBase) detach(self Node) {
	if b.parent != nil {
		b.parent.RemoveChild(self)
	}
}

// ID returns the identity of any node.
func ID(n Node) uuid.UUID { return n.base().id }

// NameOf returns the name of any node.
func NameOf(n Node) string { return n.base().Name }

// Attached reports whether n currently has a parent.
func Attached(n Node) bool { return n.base().parent != nil }

// Container groups child nodes. Children inherit its offset and alpha.
type Container struct {
	nodeBase
	SortableChildren bool

	children []Node
}

func NewContainer(name string) *Container {
	return &Container{nodeBase: newBase(name)}
}

// AddChild appends n, moving it from any previous parent.
func (c *Container) AddChild(n Node) {
	if n == nil {
		return
	}
	b := n.base()
	if b.parent == c {
		return
	}
	if b.parent != nil {
		b.parent.RemoveChild(n)
	}
	b.parent = c
	c.children = append(c.children, n)
}

// RemoveChild detaches n. It reports whether n was a child of c.
func (c *Container) RemoveChild(n Node) bool {
	for i, ch := range c.children {
		if ch == n {
			copy(c.children[i:], c.children[i+1:])
			c.children[len(c.children)-1] = nil
			c.children = c.children[:len(c.children)-1]
			n.base().parent = nil
			return true
		}
	}
	return false
}

// RemoveChildren detaches every child and returns them.
func (c *Container) RemoveChildren() []Node {
	out := c.children
	for _, ch := range out {
		ch.base().parent = nil
	}
	c.children = nil
	return out
}

// Children returns the live child slice; callers must not modify it.
func (c *Container) Children() []Node { return c.children }

func (c *Container) Len() int { return len(c.children) }

// ChildByName returns the first direct child with the given name.
func (c *Container) ChildByName(name string) Node {
	for _, ch := range c.children {
		if ch.base().Name == name {
			return ch
		}
	}
	return nil
}

// DrawOrder returns children in render order: insertion order, or stably
// sorted by ZIndex when SortableChildren is set.
func (c *Container) DrawOrder() []Node {
	if !c.SortableChildren {
		return c.children
	}
	out := make([]Node, len(c.children))
	copy(out, c.children)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].base().ZIndex < out[j].base().ZIndex
	})
	return out
}

// Destroy detaches the container and destroys its whole subtree.
func (c *Container) Destroy() {
	if c.destroyed {
		return
	}
	c.detach(c)
	for _, ch := range c.RemoveChildren() {
		ch.Destroy()
	}
	c.destroyed = true
}

// CountNodes returns the number of nodes below c, not counting c itself.
func CountNodes(c *Container) int {
	n := 0
	for _, ch := range c.children {
		n++
		if sub, ok := ch.(*Container); ok {
			n += CountNodes(sub)
		}
	}
	return n
}
