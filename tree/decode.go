package tree

import (
	"math"

	xgberrors "github.com/lucagiovagnoli/xgboost-predictor-go/pkg/errors"
	"github.com/lucagiovagnoli/xgboost-predictor-go/util"
)

// node is the transient on-disk node record. Only the decoder sees it; the
// packed words are computed from it and the record is dropped.
type node struct {
	parent     int32 // highest bit flags left-childness, unused past decode
	left       int32
	right      int32
	splitIndex int32 // highest bit flags default-left
	value      float32
}

func (n *node) isLeaf() bool {
	return n.left == -1
}

func (n *node) featureIndex() int32 {
	return int32(uint32(n.splitIndex) & 0x7fffffff)
}

func (n *node) defaultLeft() bool {
	return uint32(n.splitIndex)>>31 != 0
}

func readParam(r *util.ModelReader) (Param, error) {
	var p Param
	fields := []*int32{
		&p.NumRoots, &p.NumNodes, &p.NumDeleted,
		&p.MaxDepth, &p.NumFeatures, &p.SizeLeafVector,
	}
	for _, f := range fields {
		v, err := r.ReadInt()
		if err != nil {
			return p, err
		}
		*f = v
	}
	// 31 reserved words, read to advance the stream.
	if _, err := r.ReadIntArray(31); err != nil {
		return p, err
	}
	return p, nil
}

func readNode(r *util.ModelReader) (node, error) {
	var n node
	fields := []*int32{&n.parent, &n.left, &n.right, &n.splitIndex}
	for _, f := range fields {
		v, err := r.ReadInt()
		if err != nil {
			return n, err
		}
		*f = v
	}
	// The single value slot holds the leaf score for leaves and the split
	// threshold for internal nodes.
	v, err := r.ReadFloat()
	if err != nil {
		return n, err
	}
	n.value = v
	return n, nil
}

func readStat(r *util.ModelReader) (NodeStat, error) {
	var s NodeStat
	floats := []*float32{&s.LossChange, &s.HessianSum, &s.BaseWeight}
	for _, f := range floats {
		v, err := r.ReadFloat()
		if err != nil {
			return s, err
		}
		*f = v
	}
	cnt, err := r.ReadInt()
	if err != nil {
		return s, err
	}
	s.LeafChildCount = cnt
	return s, nil
}

// treeBuilder accumulates the packed arrays during decode. Decode hands the
// finished arrays to an immutable PackedTree and discards the builder, so
// mutation is impossible after load.
type treeBuilder struct {
	nodes []uint32
	stats []NodeStat
}

func (b *treeBuilder) packValue(n *node) uint32 {
	return math.Float32bits(n.value)
}

func (b *treeBuilder) packChildren(n *node) (uint32, error) {
	// Leaves carry -1 for both children; masking folds that to 0xffff.
	if n.left > 0 && uint32(n.left)&^childMask != 0 {
		return 0, xgberrors.NewTreeTooTallError(n.left)
	}
	if n.right > 0 && uint32(n.right)&^childMask != 0 {
		return 0, xgberrors.NewTreeTooTallError(n.right)
	}
	return (uint32(n.right) & childMask) | (uint32(n.left)&childMask)<<childBits, nil
}

func (b *treeBuilder) packFlags(n *node) (uint32, error) {
	featureIndex := n.featureIndex()
	if uint32(featureIndex)&^splitMask != 0 {
		return 0, xgberrors.NewFeatureIndexOverflowError(featureIndex)
	}
	flags := uint32(featureIndex) & splitMask
	if n.isLeaf() {
		flags |= leafMask
	}
	if n.defaultLeft() {
		flags |= defaultMask
	}
	return flags, nil
}

func (b *treeBuilder) append(n *node) error {
	children, err := b.packChildren(n)
	if err != nil {
		return err
	}
	flags, err := b.packFlags(n)
	if err != nil {
		return err
	}
	b.nodes = append(b.nodes, b.packValue(n), children, flags)
	return nil
}

// Decode reads one tree — parameter block, node records, stat records — and
// returns it in the packed layout. It is the default Decoder.
func Decode(r *util.ModelReader) (Tree, error) {
	param, err := readParam(r)
	if err != nil {
		return nil, err
	}
	if param.NumNodes < 0 {
		return nil, xgberrors.NewModelFormatError("tree decode", "negative node count", nil)
	}

	builder := treeBuilder{
		nodes: make([]uint32, 0, BlockSize*int(param.NumNodes)),
		stats: make([]NodeStat, 0, int(param.NumNodes)),
	}
	for i := int32(0); i < param.NumNodes; i++ {
		n, err := readNode(r)
		if err != nil {
			return nil, err
		}
		if err := builder.append(&n); err != nil {
			return nil, err
		}
	}
	for i := int32(0); i < param.NumNodes; i++ {
		s, err := readStat(r)
		if err != nil {
			return nil, err
		}
		builder.stats = append(builder.stats, s)
	}

	return &PackedTree{param: param, nodes: builder.nodes, stats: builder.stats}, nil
}
