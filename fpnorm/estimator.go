// Package fpnorm implements the two p-norm estimators LpSampler
// composes: an AMS-style F2Estimator for ||f||_2 and an Indyk-style
// median-of-Cauchy F1Estimator for ||f||_1.
package fpnorm

import "errors"

// ErrInvalidParameter is returned when eps or delta fall outside (0,1).
var ErrInvalidParameter = errors.New("fpnorm: invalid parameter")

// ErrContractViolation is returned by Subtract when the two sketches
// are not structurally compatible (different width or seed).
var ErrContractViolation = errors.New("fpnorm: contract violation")

// Estimator is the narrow capability LpSampler needs from a p-norm
// sketch, regardless of which p it was built for. LpSampler holds
// exactly one concrete Estimator chosen at construction time by p;
// it never type-switches on it.
type Estimator interface {
	Update(key uint64, delta float64)
	EstimateNorm() float64
}
