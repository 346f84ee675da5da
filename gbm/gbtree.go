// Package gbm implements the gradient-boosted tree-ensemble section of the
// model dump: ensemble header decode, per-tree delegation to the tree
// decoder, tree-to-output-group assignment, and prediction aggregation.
package gbm

import (
	xgberrors "github.com/lucagiovagnoli/xgboost-predictor-go/pkg/errors"
	"github.com/lucagiovagnoli/xgboost-predictor-go/pkg/log"
	"github.com/lucagiovagnoli/xgboost-predictor-go/tree"
	"github.com/lucagiovagnoli/xgboost-predictor-go/util"
)

// ModelParam is the fixed ensemble parameter block of the binary dump. The
// field order below is the wire order; Load reads it byte-for-byte, padding
// and reserved words included.
type ModelParam struct {
	NumTrees       int32
	NumRoots       int32
	NumFeatures    int32
	NumPredBuffer  int64
	NumOutputGroup int32
	SizeLeafVector int32
}

// predBufferSize is the element count of one historical prediction-buffer
// region. Two such regions trail the group-id array; they are training-time
// caches and are skipped without interpretation.
func (p *ModelParam) predBufferSize() int64 {
	return int64(p.NumOutputGroup) * p.NumPredBuffer * int64(p.SizeLeafVector+1)
}

func readModelParam(r *util.ModelReader) (ModelParam, error) {
	var p ModelParam
	var err error
	head := []*int32{&p.NumTrees, &p.NumRoots, &p.NumFeatures}
	for _, f := range head {
		if *f, err = r.ReadInt(); err != nil {
			return p, err
		}
	}
	if _, err = r.ReadInt(); err != nil { // padding
		return p, err
	}
	if p.NumPredBuffer, err = r.ReadLong(); err != nil {
		return p, err
	}
	if p.NumOutputGroup, err = r.ReadInt(); err != nil {
		return p, err
	}
	if p.SizeLeafVector, err = r.ReadInt(); err != nil {
		return p, err
	}
	if _, err = r.ReadIntArray(31); err != nil { // reserved
		return p, err
	}
	if _, err = r.ReadInt(); err != nil { // trailing padding
		return p, err
	}
	return p, nil
}

type options struct {
	withPredBuffer bool
	decoder        tree.Decoder
}

// Option configures Load.
type Option func(*options)

// WithPredictionBuffer tells Load that the dump carries the two historical
// prediction-buffer regions, which it will then skip.
func WithPredictionBuffer(with bool) Option {
	return func(o *options) {
		o.withPredBuffer = with
	}
}

// WithTreeDecoder selects the tree construction strategy. The default is the
// packed layout of tree.Decode.
func WithTreeDecoder(d tree.Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// GBTree is a loaded tree ensemble. It is immutable after Load and safe for
// concurrent prediction; each caller supplies its own feature vector.
type GBTree struct {
	param      ModelParam
	trees      []tree.Tree
	treeInfo   []int32
	groupTrees [][]tree.Tree
}

// Load decodes the tree-ensemble section from the reader. A failure at any
// stage aborts the load; no partially decoded ensemble is returned.
func Load(r *util.ModelReader, opts ...Option) (*GBTree, error) {
	o := options{decoder: tree.Decode}
	for _, opt := range opts {
		opt(&o)
	}

	param, err := readModelParam(r)
	if err != nil {
		return nil, err
	}
	if param.NumTrees < 0 {
		return nil, xgberrors.NewModelFormatError("ensemble decode", "negative tree count", nil)
	}
	if param.NumOutputGroup < 0 {
		return nil, xgberrors.NewModelFormatError("ensemble decode", "negative output group count", nil)
	}

	g := &GBTree{
		param: param,
		trees: make([]tree.Tree, 0, int(param.NumTrees)),
	}
	for i := int32(0); i < param.NumTrees; i++ {
		t, err := o.decoder(r)
		if err != nil {
			return nil, xgberrors.WithTreeIndex(
				xgberrors.Wrapf(err, "decoding tree %d of %d", i, param.NumTrees), int(i))
		}
		g.trees = append(g.trees, t)
	}

	if param.NumTrees != 0 {
		if g.treeInfo, err = r.ReadIntArray(int(param.NumTrees)); err != nil {
			return nil, err
		}
	}

	if o.withPredBuffer && param.NumPredBuffer != 0 {
		for region := 0; region < 2; region++ {
			if err := r.Skip(4 * param.predBufferSize()); err != nil {
				return nil, err
			}
		}
	}

	// Partition trees by group id, preserving tree-index order per group.
	g.groupTrees = make([][]tree.Tree, param.NumOutputGroup)
	for i, gid := range g.treeInfo {
		if gid < 0 || gid >= param.NumOutputGroup {
			return nil, xgberrors.NewModelFormatError("ensemble decode",
				"tree group id out of range", xgberrors.Newf("tree %d has group id %d of %d groups", i, gid, param.NumOutputGroup))
		}
		g.groupTrees[gid] = append(g.groupTrees[gid], g.trees[i])
	}

	lg := log.Logger()
	lg.Debug().
		Int32("trees", param.NumTrees).
		Int32("output_groups", param.NumOutputGroup).
		Int32("features", param.NumFeatures).
		Msg("loaded gradient boosted tree ensemble")

	return g, nil
}

// NumTrees returns the total tree count across all output groups.
func (g *GBTree) NumTrees() int {
	return len(g.trees)
}

// NumOutputGroups returns the number of output groups (classes).
func (g *GBTree) NumOutputGroups() int {
	return int(g.param.NumOutputGroup)
}

// NumFeatures returns the feature count the trees were built over.
func (g *GBTree) NumFeatures() int {
	return int(g.param.NumFeatures)
}

// pred sums leaf values over the first treeLimit trees of one output group.
// A treeLimit of 0, or one past the group size, means the whole group.
func (g *GBTree) pred(fv util.FVec, group, treeLimit int) float64 {
	trees := g.groupTrees[group]
	limit := len(trees)
	if treeLimit > 0 && treeLimit < limit {
		limit = treeLimit
	}
	sum := 0.0
	for _, t := range trees[:limit] {
		sum += t.LeafValue(fv, 0)
	}
	return sum
}

// Predict returns one summed score per output group. A group with no trees
// scores 0.0.
func (g *GBTree) Predict(fv util.FVec, treeLimit int) []float64 {
	preds := make([]float64, g.param.NumOutputGroup)
	for gid := range preds {
		preds[gid] = g.pred(fv, gid, treeLimit)
	}
	return preds
}

// PredictSingle returns the score of the only output group. Calling it on a
// multi-output model is a usage error, reported as MultiOutputError.
func (g *GBTree) PredictSingle(fv util.FVec, treeLimit int) (float64, error) {
	if g.param.NumOutputGroup != 1 {
		return 0, xgberrors.NewMultiOutputError(int(g.param.NumOutputGroup))
	}
	return g.pred(fv, 0, treeLimit), nil
}

// PredictLeafIndices returns the packed leaf offset each tree routes the
// feature vector to, in original tree order regardless of group membership.
// A treeLimit of 0 covers every tree; larger limits clamp to the tree count.
func (g *GBTree) PredictLeafIndices(fv util.FVec, treeLimit int) []int {
	limit := len(g.trees)
	if treeLimit > 0 && treeLimit < limit {
		limit = treeLimit
	}
	leaves := make([]int, limit)
	for i := 0; i < limit; i++ {
		leaves[i] = g.trees[i].LeafIndex(fv, 0)
	}
	return leaves
}
