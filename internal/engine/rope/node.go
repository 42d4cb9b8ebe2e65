package rope

import "strings"

// Tree shape constants.
const (
	// MaxChildren is the maximum children per internal node.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 8
)

// node is a rope tree node. Leaves (height 0) hold chunks; internal
// nodes hold children of height-1. Nodes are never mutated once built.
type node struct {
	height   int
	summary  Summary
	children []*node
	chunks   []Chunk
}

func newLeaf(chunks []Chunk) *node {
	n := &node{chunks: chunks}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func newInternal(children []*node) *node {
	n := &node{height: children[0].height + 1, children: children}
	for _, c := range children {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func (n *node) isLeaf() bool { return n.height == 0 }

func (n *node) width() int {
	if n.isLeaf() {
		return len(n.chunks)
	}
	return len(n.children)
}

// build constructs a balanced tree bottom-up from chunks.
func build(chunks []Chunk) *node {
	if len(chunks) == 0 {
		return newLeaf(nil)
	}
	var level []*node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		level = append(level, newLeaf(append([]Chunk(nil), chunks[i:end]...)))
	}
	for len(level) > 1 {
		var parents []*node
		for i := 0; i < len(level); i += MaxChildren {
			end := min(i+MaxChildren, len(level))
			parents = append(parents, newInternal(append([]*node(nil), level[i:end]...)))
		}
		level = parents
	}
	return level[0]
}

// collectChunks appends every chunk under n to dst.
func (n *node) collectChunks(dst []Chunk) []Chunk {
	if n.isLeaf() {
		return append(dst, n.chunks...)
	}
	for _, c := range n.children {
		dst = c.collectChunks(dst)
	}
	return dst
}

func (n *node) appendRange(sb *strings.Builder, start, end int) {
	if n.isLeaf() {
		off := 0
		for _, c := range n.chunks {
			cEnd := off + c.Len()
			if cEnd > start && off < end {
				sb.WriteString(c.data[max(start-off, 0):min(end-off, c.Len())])
			}
			if cEnd >= end {
				return
			}
			off = cEnd
		}
		return
	}
	off := 0
	for _, c := range n.children {
		cEnd := off + c.summary.Bytes
		if cEnd > start && off < end {
			c.appendRange(sb, max(start-off, 0), min(end-off, c.summary.Bytes))
		}
		if cEnd >= end {
			return
		}
		off = cEnd
	}
}

// split returns trees holding [0, at) and [at, len).
func (n *node) split(at int) (*node, *node) {
	if at <= 0 {
		return newLeaf(nil), n
	}
	if at >= n.summary.Bytes {
		return n, newLeaf(nil)
	}
	if n.isLeaf() {
		var left, right []Chunk
		off := 0
		for _, c := range n.chunks {
			switch {
			case off+c.Len() <= at:
				left = append(left, c)
			case off >= at:
				right = append(right, c)
			default:
				l, r := c.split(at - off)
				left = append(left, l)
				right = append(right, r)
			}
			off += c.Len()
		}
		return newLeaf(left), newLeaf(right)
	}

	off := 0
	for i, c := range n.children {
		if at < off+c.summary.Bytes {
			l, r := c.split(at - off)
			left := join(fromChildren(n.children[:i]), l)
			right := join(r, fromChildren(n.children[i+1:]))
			return left, right
		}
		off += c.summary.Bytes
	}
	return n, newLeaf(nil)
}

// fromChildren wraps a run of same-height siblings, collapsing trivial
// wrappers so the result never has a single-child root.
func fromChildren(children []*node) *node {
	switch len(children) {
	case 0:
		return newLeaf(nil)
	case 1:
		return children[0]
	default:
		return newInternal(append([]*node(nil), children...))
	}
}

// join concatenates two trees.
func join(left, right *node) *node {
	if left.summary.Bytes == 0 {
		return right
	}
	if right.summary.Bytes == 0 {
		return left
	}
	parts := joinParts(left, right)
	if len(parts) == 1 {
		return parts[0]
	}
	return newInternal(parts)
}

// joinParts concatenates left and right and returns one or two nodes of
// height max(left.height, right.height).
func joinParts(left, right *node) []*node {
	switch {
	case left.height == right.height:
		return mergeSiblings(left, right)
	case left.height > right.height:
		last := len(left.children) - 1
		parts := joinParts(left.children[last], right)
		parts = liftTo(parts, left.height-1)
		children := make([]*node, 0, last+len(parts))
		children = append(children, left.children[:last]...)
		children = append(children, parts...)
		return pack(children)
	default:
		parts := joinParts(left, right.children[0])
		parts = liftTo(parts, right.height-1)
		children := make([]*node, 0, len(parts)+len(right.children)-1)
		children = append(children, parts...)
		children = append(children, right.children[1:]...)
		return pack(children)
	}
}

// liftTo wraps nodes shorter than height until they reach it.
func liftTo(parts []*node, height int) []*node {
	for i, p := range parts {
		for p.height < height {
			p = newInternal([]*node{p})
		}
		parts[i] = p
	}
	return parts
}

// mergeSiblings merges two nodes of equal height.
func mergeSiblings(left, right *node) []*node {
	if left.isLeaf() {
		chunks := mergeChunks(left.chunks, right.chunks)
		if len(chunks) <= MaxChunksPerLeaf {
			return []*node{newLeaf(chunks)}
		}
		mid := len(chunks) / 2
		return []*node{
			newLeaf(append([]Chunk(nil), chunks[:mid]...)),
			newLeaf(append([]Chunk(nil), chunks[mid:]...)),
		}
	}
	children := make([]*node, 0, len(left.children)+len(right.children))
	children = append(children, left.children...)
	children = append(children, right.children...)
	return pack(children)
}

// pack groups same-height children into one or two parents.
func pack(children []*node) []*node {
	if len(children) <= MaxChildren {
		return []*node{newInternal(children)}
	}
	mid := len(children) / 2
	return []*node{
		newInternal(append([]*node(nil), children[:mid]...)),
		newInternal(append([]*node(nil), children[mid:]...)),
	}
}

// lineStart returns the byte offset at which line (0-based) begins.
// The caller guarantees 0 < line <= summary.Lines.
func (n *node) lineStart(line int) int {
	off := 0
	if n.isLeaf() {
		for _, c := range n.chunks {
			if c.summary.Lines >= line {
				return off + c.lineStart(line)
			}
			line -= c.summary.Lines
			off += c.Len()
		}
		return off
	}
	for _, c := range n.children {
		if c.summary.Lines >= line {
			return off + c.lineStart(line)
		}
		line -= c.summary.Lines
		off += c.summary.Bytes
	}
	return off
}

// linesBefore counts newlines in [0, at).
func (n *node) linesBefore(at int) int {
	lines := 0
	if n.isLeaf() {
		off := 0
		for _, c := range n.chunks {
			if at < off+c.Len() {
				return lines + strings.Count(c.data[:at-off], "\n")
			}
			lines += c.summary.Lines
			off += c.Len()
		}
		return lines
	}
	off := 0
	for _, c := range n.children {
		if at < off+c.summary.Bytes {
			return lines + c.linesBefore(at-off)
		}
		lines += c.summary.Lines
		off += c.summary.Bytes
	}
	return lines
}

// byteAt returns the byte at offset; the caller bounds-checks.
func (n *node) byteAt(at int) byte {
	for !n.isLeaf() {
		for _, c := range n.children {
			if at < c.summary.Bytes {
				n = c
				break
			}
			at -= c.summary.Bytes
		}
	}
	for _, c := range n.chunks {
		if at < c.Len() {
			return c.data[at]
		}
		at -= c.Len()
	}
	return 0
}
