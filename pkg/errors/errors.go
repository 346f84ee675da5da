// Package errors provides the error taxonomy for model decoding and
// prediction. Decode-time failures carry enough structure (tree index,
// child id, feature index) to locate the offending record in the binary
// dump, and every constructor attaches a stack trace via cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// MaxTreeHeight is the tallest tree the packed node layout can address.
// Child offsets are stored in 16 bits, so a tree of height 16 (65535
// addressable node slots) is the hard limit.
const MaxTreeHeight = 16

// TreeTooTallError reports a child offset that does not fit the 16-bit
// child-address field of the packed node layout.
type TreeTooTallError struct {
	TreeIndex int
	ChildID   int32
}

func (e *TreeTooTallError) Error() string {
	return fmt.Sprintf("xgbpredictor: tree %d: height exceeds %d, child id %d does not fit 16 bits",
		e.TreeIndex, MaxTreeHeight, e.ChildID)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *TreeTooTallError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("tree_index", e.TreeIndex).
		Int32("child_id", e.ChildID).
		Int("max_height", MaxTreeHeight).
		Str("type", "TreeTooTallError")
}

// NewTreeTooTallError creates a new TreeTooTallError with a stack trace.
// The tree index is unknown inside the tree decoder; the ensemble loader
// stamps it via WithTreeIndex once it knows which tree failed.
func NewTreeTooTallError(childID int32) error {
	err := &TreeTooTallError{TreeIndex: -1, ChildID: childID}
	return errors.WithStack(err)
}

// WithTreeIndex stamps the tree index onto a TreeTooTallError or
// FeatureIndexOverflowError found in err's chain. Other errors pass through.
func WithTreeIndex(err error, treeIndex int) error {
	var tall *TreeTooTallError
	if errors.As(err, &tall) {
		tall.TreeIndex = treeIndex
	}
	var overflow *FeatureIndexOverflowError
	if errors.As(err, &overflow) {
		overflow.TreeIndex = treeIndex
	}
	return err
}

// FeatureIndexOverflowError reports a split feature index that does not fit
// the 30-bit feature field of the packed node layout. Well-formed dumps never
// trigger this; it guards against silent truncation by the bit masks.
type FeatureIndexOverflowError struct {
	TreeIndex    int
	FeatureIndex int32
}

func (e *FeatureIndexOverflowError) Error() string {
	return fmt.Sprintf("xgbpredictor: tree %d: feature index %d does not fit 30 bits",
		e.TreeIndex, e.FeatureIndex)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *FeatureIndexOverflowError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("tree_index", e.TreeIndex).
		Int32("feature_index", e.FeatureIndex).
		Str("type", "FeatureIndexOverflowError")
}

// NewFeatureIndexOverflowError creates a new FeatureIndexOverflowError with a
// stack trace.
func NewFeatureIndexOverflowError(featureIndex int32) error {
	err := &FeatureIndexOverflowError{TreeIndex: -1, FeatureIndex: featureIndex}
	return errors.WithStack(err)
}

// MultiOutputError reports a single-output prediction call against a model
// with more than one output group. This is a usage error, not a data error.
type MultiOutputError struct {
	OutputGroups int
}

func (e *MultiOutputError) Error() string {
	return fmt.Sprintf("xgbpredictor: PredictSingle requires a single-output model, this model outputs %d groups",
		e.OutputGroups)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *MultiOutputError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("output_groups", e.OutputGroups).
		Str("type", "MultiOutputError")
}

// NewMultiOutputError creates a new MultiOutputError with a stack trace.
func NewMultiOutputError(outputGroups int) error {
	err := &MultiOutputError{OutputGroups: outputGroups}
	return errors.WithStack(err)
}

// ModelFormatError reports a malformed or truncated model stream. Op names
// the decode stage, Kind describes the defect, Err carries the underlying
// stream failure when there is one.
type ModelFormatError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xgbpredictor: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("xgbpredictor: %s: %s", e.Op, e.Kind)
}

func (e *ModelFormatError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ModelFormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("kind", e.Kind).
		Str("type", "ModelFormatError")
}

// NewModelFormatError creates a new ModelFormatError with a stack trace.
func NewModelFormatError(op, kind string, err error) error {
	formatErr := &ModelFormatError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(formatErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}
