package integrators

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f Func, t float64, y []float64, dt float64) ([]float64, error) {
	dy, err := f(t, y)
	if err != nil {
		return nil, err
	}
	result := make([]float64, len(y))
	for i := range y {
		result[i] = y[i] + dt*dy[i]
	}
	return result, nil
}
