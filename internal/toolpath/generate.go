package toolpath

import "math"

// segment is one key-point span with its precomputed timing.
type segment struct {
	from, to KeyPoint
	time     float64
	steps    int
}

// Generate samples the path through points at params.TimeStep intervals.
//
// Fails with ErrCodeInsufficientKeyPoints for fewer than 2 points,
// ErrCodeInvalidParameters for out-of-range parameters, and
// ErrCodePointBudgetExceeded when the total sample count exceeds
// params.MaxPoints. On error no path or summary is returned.
func Generate(params RunParameters, points []KeyPoint) (*GeneratedPath, RunSummary, error) {
	if len(points) < 2 {
		return nil, RunSummary{}, NewInsufficientKeyPointsError(len(points))
	}
	if err := params.Validate(); err != nil {
		return nil, RunSummary{}, err
	}

	segments, perPass := planSegments(params, points)

	// Step counts are summed as floats so that absurd budgets are rejected
	// before any int conversion or allocation.
	if total := perPass * float64(params.NumPasses); total > float64(params.MaxPoints) {
		return nil, RunSummary{}, NewPointBudgetError(total, params.MaxPoints)
	}
	totalPoints := int(perPass) * params.NumPasses

	path := &GeneratedPath{
		Xs: make([]float64, 0, totalPoints),
		Ys: make([]float64, 0, totalPoints),
		Zs: make([]float64, 0, totalPoints),
	}
	var summary RunSummary

	for pass := 0; pass < params.NumPasses; pass++ {
		offset := float64(pass) * params.PassHeight
		for _, seg := range segments {
			// A segment shorter than one time step emits nothing; dividing
			// by its zero step count must not happen.
			if seg.steps > 0 {
				d := seg.to.Sub(seg.from)
				n := float64(seg.steps)
				for j := 0; j < seg.steps; j++ {
					s := float64(j)
					path.append(
						d.X/n*s+seg.from.X,
						d.Y/n*s+seg.from.Y,
						d.Z/n*s+seg.from.Z+offset,
					)
				}
			}
			summary.EstimatedTimeSeconds += seg.time
			summary.TotalPoints += seg.steps
		}
	}

	return path, summary, nil
}

// planSegments computes the timing of every segment for a single pass and
// the number of samples one pass produces.
func planSegments(params RunParameters, points []KeyPoint) ([]segment, float64) {
	segments := make([]segment, 0, len(points)-1)
	var perPass float64
	for i := 1; i < len(points); i++ {
		from, to := points[i-1], points[i]
		t := from.Distance(to) / params.Velocity
		steps := math.Trunc(t / params.TimeStep)
		if math.IsNaN(steps) {
			steps = 0
		}
		perPass += steps

		seg := segment{from: from, to: to, time: t}
		if steps <= float64(params.MaxPoints) {
			seg.steps = int(steps)
		}
		segments = append(segments, seg)
	}
	return segments, perPass
}
