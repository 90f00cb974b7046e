// Package toolpath turns an ordered list of key points into a dense,
// time-stepped tool path.
//
// # Algorithm
//
// Each pair of consecutive key points forms a segment. A segment's duration
// is its Euclidean length divided by the run velocity, and it is sampled
// trunc(duration / timeStep) times by linear interpolation. The segment
// endpoint itself is never emitted; the next segment starts there.
//
// The whole path is repeated once per pass, each pass shifted upwards by
// passIndex * passHeight. Samples are emitted pass by pass, segment by
// segment, sub-step by sub-step.
//
// # Point Budget
//
// MaxPoints is a hard limit. A run whose total sample count exceeds it fails
// with POINT_BUDGET_EXCEEDED and returns no partial path.
//
// # State
//
// Generate keeps all accumulators local to one call. Nothing in this package
// holds state between runs, and nothing in it logs.
package toolpath
