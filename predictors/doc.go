// Package predictors provides predict.Func implementations: remote language
// models and a local counter useful for demos and manual testing.
package predictors
