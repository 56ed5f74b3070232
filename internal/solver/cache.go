package solver

// StepCacher is implemented by components that memoize values within a
// single step. The System clears the cache at the top of every Step,
// before any stage call runs.
type StepCacher interface {
	ClearStepCache()
}

// StepCache is a small per-step memo components can embed to share a
// computed value between stage and derivative calls without recomputing
// it. It is not safe for concurrent use, matching the single-threaded
// step contract.
type StepCache struct {
	vals map[string]float64
}

// Value returns the cached value for key, computing and storing it on
// first use within the current step.
func (c *StepCache) Value(key string, compute func() float64) float64 {
	if c.vals == nil {
		c.vals = make(map[string]float64)
	}
	if v, ok := c.vals[key]; ok {
		return v
	}
	v := compute()
	c.vals[key] = v
	return v
}

// ClearStepCache drops all cached values. Called by the System at the
// start of each step.
func (c *StepCache) ClearStepCache() {
	clear(c.vals)
}
