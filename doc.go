// Package xgbpredictor evaluates pre-trained gradient-boosted decision-tree
// models from the fixed XGBoost binary dump, without the training framework's
// runtime. It is built for embedding inference inside Go services.
//
// The module decodes the tree-ensemble section of a model dump into an
// immutable packed representation and scores feature vectors against it:
//
//	r := util.NewModelReader(file)
//	model, err := gbm.Load(r, gbm.WithPredictionBuffer(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fv := util.NewDenseFVec([]float64{0.7, 1.2, 0.0}, false)
//	scores := model.Predict(fv, 0) // one score per output group
//
// # Packages
//
//   - util: the binary record reader and the FVec feature-vector abstraction
//     (map-, slice-, and gonum-vector-backed)
//   - tree: packed regression trees — decode, bit layout, traversal
//   - gbm: the tree ensemble — header decode, output-group assignment,
//     prediction aggregation
//   - pkg/errors: the decode and usage error taxonomy
//   - pkg/log: the opt-in zerolog module logger
//
// # Concurrency
//
// Loading is single-threaded and must finish before the model is shared. A
// loaded ensemble is immutable, so any number of goroutines may call the
// Predict entry points concurrently, each with its own feature vector.
package xgbpredictor
