package pulse

// Result reports the outcome of an envelope fit.
type Result struct {
	Min     float64
	Params  []float64
	Status  string
	MinUnit string
	Payload interface{}
	Runtime float64
}

const OK = "OK"
