package toolpath

import (
	"fmt"
	"math"
)

// RunParameters are the global motion parameters of one generation run.
// They are read from the source header and never modified afterwards.
type RunParameters struct {
	// MaxPoints caps the total number of generated samples.
	MaxPoints int `json:"maxPoints"`

	// NumPasses is how many times the path is traversed.
	NumPasses int `json:"numPasses"`

	// PassHeight is the vertical offset added per pass index.
	PassHeight float64 `json:"passHeight"`

	// TimeStep is the sampling interval in seconds.
	TimeStep float64 `json:"timeStep"`

	// Velocity is the tool speed in units per second.
	Velocity float64 `json:"velocity"`
}

// KeyPoint is a user-specified position the path passes through.
type KeyPoint struct {
	X, Y, Z float64
}

// Sub returns the component-wise difference p - o.
func (p KeyPoint) Sub(o KeyPoint) KeyPoint {
	return KeyPoint{
		X: p.X - o.X,
		Y: p.Y - o.Y,
		Z: p.Z - o.Z,
	}
}

// Norm returns the Euclidean length of p treated as a vector.
func (p KeyPoint) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Distance returns the Euclidean distance between p and o.
func (p KeyPoint) Distance(o KeyPoint) float64 {
	return o.Sub(p).Norm()
}

func (p KeyPoint) String() string {
	return fmt.Sprintf("KeyPoint{X: %g, Y: %g, Z: %g}", p.X, p.Y, p.Z)
}

// GeneratedPath holds the sampled tool path as three parallel sequences.
// Index i across Xs, Ys and Zs is one sampled position.
type GeneratedPath struct {
	Xs []float64
	Ys []float64
	Zs []float64
}

// Len returns the number of samples in the path.
func (g *GeneratedPath) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Xs)
}

func (g *GeneratedPath) append(x, y, z float64) {
	g.Xs = append(g.Xs, x)
	g.Ys = append(g.Ys, y)
	g.Zs = append(g.Zs, z)
}

// RunSummary reports the totals of a completed run.
type RunSummary struct {
	EstimatedTimeSeconds float64 `json:"estimated_time_seconds"`
	TotalPoints          int     `json:"total_points"`
}
