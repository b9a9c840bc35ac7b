package geometry

import (
	"cmp"
	"slices"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// nilNode marks a missing child or primitive handle
const nilNode int32 = -1

// bvhNode is either a leaf holding one primitive or an internal node with
// exactly two children. Its box bounds every primitive below it.
type bvhNode struct {
	box   core.AABB
	left  int32
	right int32
	shape int32
}

func (n *bvhNode) isLeaf() bool {
	return n.shape != nilNode
}

// BVH is a binary bounding volume hierarchy stored as an arena of nodes.
// It is immutable after construction and safe for concurrent traversal.
type BVH struct {
	nodes  []bvhNode
	shapes []Shape // Ordered copy; the caller keeps ownership of the shapes
	root   int32
	depth  int
}

// BVHStats summarizes the shape of a built hierarchy
type BVHStats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
}

// NewBVH constructs a BVH from a slice of shapes using median splits along
// the longest axis. An empty slice yields a tree that never hits.
func NewBVH(shapes []Shape) *BVH {
	bvh := &BVH{root: nilNode}
	if len(shapes) == 0 {
		return bvh
	}

	// Sorting happens in place on a private copy
	bvh.shapes = make([]Shape, len(shapes))
	copy(bvh.shapes, shapes)
	bvh.nodes = make([]bvhNode, 0, 2*len(shapes)-1)
	bvh.root = bvh.build(0, len(shapes), 1)
	return bvh
}

// build creates the subtree for shapes[start:end] and returns its handle
func (b *BVH) build(start, end, depth int) int32 {
	b.depth = max(b.depth, depth)

	box := core.EmptyAABB()
	for _, shape := range b.shapes[start:end] {
		box = box.Union(shape.BoundingBox())
	}

	handle := int32(len(b.nodes))
	b.nodes = append(b.nodes, bvhNode{box: box, left: nilNode, right: nilNode, shape: nilNode})

	if end-start == 1 {
		b.nodes[handle].shape = int32(start)
		return handle
	}

	axis := box.LongestAxis()
	slices.SortStableFunc(b.shapes[start:end], func(a, c Shape) int {
		return cmp.Compare(a.Centroid().Axis(axis), c.Centroid().Axis(axis))
	})

	mid := start + (end-start)/2
	left := b.build(start, mid, depth+1)
	right := b.build(mid, end, depth+1)

	// The slice may have grown, so index again rather than hold a pointer
	b.nodes[handle].left = left
	b.nodes[handle].right = right
	return handle
}

// Hit finds the closest intersection in the tree. Both children of an
// internal node are always visited; the shrinking hit.T prunes the rest.
func (b *BVH) Hit(ray core.Ray, tMin float64, hit *HitRecord) bool {
	if b.root == nilNode {
		return false
	}
	return b.hitNode(b.root, ray, tMin, hit)
}

func (b *BVH) hitNode(handle int32, ray core.Ray, tMin float64, hit *HitRecord) bool {
	node := &b.nodes[handle]
	if !node.box.Hit(ray, 0, hit.T) {
		return false
	}

	if node.isLeaf() {
		return b.shapes[node.shape].Hit(ray, tMin, hit)
	}

	hitLeft := b.hitNode(node.left, ray, tMin, hit)
	hitRight := b.hitNode(node.right, ray, tMin, hit)
	return hitLeft || hitRight
}

// BoundingBox returns the bounds of the whole tree
func (b *BVH) BoundingBox() core.AABB {
	if b.root == nilNode {
		return core.EmptyAABB()
	}
	return b.nodes[b.root].box
}

// Len returns the number of primitives in the tree
func (b *BVH) Len() int {
	return len(b.shapes)
}

// Stats reports node counts and depth
func (b *BVH) Stats() BVHStats {
	stats := BVHStats{Nodes: len(b.nodes), MaxDepth: b.depth}
	for i := range b.nodes {
		if b.nodes[i].isLeaf() {
			stats.Leaves++
		}
	}
	return stats
}
