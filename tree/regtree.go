// Package tree implements the packed regression-tree layout and its
// traversal. Each decoded node occupies three 32-bit words in one contiguous
// array:
//
//	word 0: IEEE-754 bits of the split threshold, or the leaf value
//	word 1: left child offset (upper 16 bits) | right child offset (lower 16 bits)
//	word 2: leaf flag (bit 31) | default-direction flag (bit 30) | feature index (bits 0-29)
//
// The 16-bit child fields cap the tree height at 16; the feature field caps
// the model at 2^30 features. Both limits are enforced at decode time.
package tree

import (
	"math"

	"github.com/lucagiovagnoli/xgboost-predictor-go/util"
)

// BlockSize is the node stride: words per packed node. Node offsets handed
// out by traversal are pre-multiplied by BlockSize, so they index the node's
// first word directly.
const BlockSize = 3

const (
	leafMask    uint32 = 1 << 31
	defaultMask uint32 = 1 << 30
	splitMask   uint32 = 0x3fffffff
	childMask   uint32 = 0xffff
	childBits          = 16
)

// Tree is the traversal capability of one decoded regression tree. A Decoder
// produces Trees from a model stream; the ensemble holds Trees, not concrete
// types, so alternative node layouts can be plugged in at load time.
type Tree interface {
	// NextOffset returns the packed offset of the child the feature vector
	// routes to from the internal node at offset.
	NextOffset(offset int, fv util.FVec) int
	// LeafIndex walks from rootOffset to a leaf and returns its packed offset.
	LeafIndex(fv util.FVec, rootOffset int) int
	// LeafValue walks from rootOffset to a leaf and returns its value.
	LeafValue(fv util.FVec, rootOffset int) float64
	// NumNodes returns the node count, leaves included.
	NumNodes() int
	// Stats returns the training statistics of the node at packed offset.
	Stats(offset int) NodeStat
}

// Decoder decodes one tree from the reader. Decode is the packed default.
type Decoder func(r *util.ModelReader) (Tree, error)

// NodeStat carries per-node training statistics. They are kept for
// introspection only; prediction never touches them.
type NodeStat struct {
	LossChange     float32
	HessianSum     float32
	BaseWeight     float32
	LeafChildCount int32
}

// Param is the fixed tree-level parameter block of the binary dump.
type Param struct {
	NumRoots       int32
	NumNodes       int32
	NumDeleted     int32
	MaxDepth       int32
	NumFeatures    int32
	SizeLeafVector int32
}

// PackedTree is an immutable regression tree in the packed layout. It is
// built only by Decode and safe for concurrent traversal.
type PackedTree struct {
	param Param
	nodes []uint32
	stats []NodeStat
}

// Param returns the decoded tree parameter block.
func (t *PackedTree) Param() Param {
	return t.param
}

// NumNodes implements Tree.
func (t *PackedTree) NumNodes() int {
	return int(t.param.NumNodes)
}

// Stats implements Tree. offset is a packed node offset as returned by
// LeafIndex or NextOffset.
func (t *PackedTree) Stats(offset int) NodeStat {
	return t.stats[offset/BlockSize]
}

// IsLeaf reports whether the packed node at offset is a leaf.
func (t *PackedTree) IsLeaf(offset int) bool {
	return t.nodes[offset+2]&leafMask != 0
}

func leftChild(children uint32) int {
	return int((children>>childBits)&childMask) * BlockSize
}

func rightChild(children uint32) int {
	return int(children&childMask) * BlockSize
}

// NextOffset implements Tree. A NaN feature value follows the node's default
// direction; otherwise the value routes left on strict less-than against the
// split threshold. The threshold is stored at single precision and widened
// for the comparison, reproducing the training framework's semantics — an
// exact-threshold value therefore routes right.
func (t *PackedTree) NextOffset(offset int, fv util.FVec) int {
	flags := t.nodes[offset+2]
	children := t.nodes[offset+1]

	fvalue := fv.Fvalue(int(flags & splitMask))
	if math.IsNaN(fvalue) {
		if flags&defaultMask != 0 {
			return leftChild(children)
		}
		return rightChild(children)
	}

	if fvalue < float64(math.Float32frombits(t.nodes[offset])) {
		return leftChild(children)
	}
	return rightChild(children)
}

// LeafIndex implements Tree. The structure is acyclic by construction (a
// validated decode produced it), so the walk is unbounded.
func (t *PackedTree) LeafIndex(fv util.FVec, rootOffset int) int {
	offset := rootOffset
	for t.nodes[offset+2]&leafMask == 0 {
		offset = t.NextOffset(offset, fv)
	}
	return offset
}

// LeafValue implements Tree.
func (t *PackedTree) LeafValue(fv util.FVec, rootOffset int) float64 {
	offset := t.LeafIndex(fv, rootOffset)
	return float64(math.Float32frombits(t.nodes[offset]))
}
