package walk

// Params is fixed for the lifetime of one run. Changing it means a full
// re-initialize.
type Params struct {
	MaxSteps   int `yaml:"max_steps" json:"max_steps"`
	SampleSize int `yaml:"sample_size" json:"sample_size"`
}

func (p Params) Validate() error {
	if p.SampleSize < 1 {
		return &ParamError{Field: "sample_size", Value: p.SampleSize}
	}
	if p.MaxSteps < 1 {
		return &ParamError{Field: "max_steps", Value: p.MaxSteps}
	}
	return nil
}

// StatSample is one point of the running statistics history.
type StatSample struct {
	Step        int     `json:"step"`
	Observed    float64 `json:"observed"`
	Theoretical float64 `json:"theoretical"`
}

// StatHistory is ordered by Step, starting at step 0.
type StatHistory []StatSample

func (h StatHistory) Last() StatSample {
	if len(h) == 0 {
		return StatSample{}
	}
	return h[len(h)-1]
}

func (h StatHistory) Observed() []float64 {
	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = s.Observed
	}
	return out
}

func (h StatHistory) Theoretical() []float64 {
	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = s.Theoretical
	}
	return out
}

func (h StatHistory) Steps() []float64 {
	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = float64(s.Step)
	}
	return out
}

// Point is a site on the square lattice.
type Point struct {
	X, Y int
}

// Coord is a plotting coordinate handed to renderers.
type Coord struct {
	X, Y float64
}
