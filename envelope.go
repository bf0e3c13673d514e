package pulse

import (
	"log"
	"math"
	"math/cmplx"
	"time"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Envelope returns the magnitude of the analytic signal of field,
// stripping the carrier oscillation so the pulse shape can be
// measured and fitted. The field must be narrowband: the spatial
// spectrum has to stay on one side of zero, i.e. k(ν) > 0 across the
// weighted band. Content on the other side lands in the discarded
// half and distorts the envelope.
func Envelope(field []float64) []float64 {
	n := len(field)
	if n == 0 {
		return nil
	}

	fft := fourier.NewCmplxFFT(n)
	c := make([]complex128, n)
	for i, v := range field {
		c[i] = complex(v, 0)
	}
	c = fft.Coefficients(nil, c)

	// Analytic signal: double the positive frequencies, zero the
	// negative ones, keep DC and Nyquist untouched.
	for i := 1; i < (n+1)/2; i++ {
		c[i] *= 2
	}
	for i := n/2 + 1; i < n; i++ {
		c[i] = 0
	}
	c = fft.Sequence(nil, c)

	env := make([]float64, n)
	for i := range env {
		// Sequence is unnormalized.
		env[i] = cmplx.Abs(c[i]) / float64(n)
	}
	return env
}

// MomentWidth returns the RMS width of env over z, weighting by env²
// (the intensity second moment). For a Gaussian envelope of standard
// deviation σ this evaluates to σ/√2.
func MomentWidth(z, env []float64) float64 {
	var w, mean float64
	for i := range z {
		p := env[i] * env[i]
		w += p
		mean += p * z[i]
	}
	if w == 0 {
		return 0
	}
	mean /= w
	var m2 float64
	for i := range z {
		p := env[i] * env[i]
		d := z[i] - mean
		m2 += p * d * d
	}
	return math.Sqrt(m2 / w)
}

// EnvelopeFit fits a Gaussian A·exp(−(z−μ)²/2σ²) to a pulse envelope
// to quantify position and width, the dispersion-broadening
// diagnostics. Params order is [A, μ, σ].
type EnvelopeFit struct {
	Z          []float64
	Env        []float64
	InitValues []float64
	Mode       string
}

func NewEnvelopeFit(z, env []float64) *EnvelopeFit {
	return &EnvelopeFit{Z: z, Env: env}
}

func gaussianModel(z float64, x []float64) float64 {
	d := z - x[1]
	return x[0] * math.Exp(-d*d/(2*x[2]*x[2]))
}

// chiSq is the mean squared residual of the model against the
// envelope samples.
func (f *EnvelopeFit) chiSq(x []float64) float64 {
	var sum float64
	for i, zi := range f.Z {
		d := f.Env[i] - gaussianModel(zi, x)
		sum += d * d
	}
	return sum / float64(len(f.Env))
}

// Solve runs the fit with the selected optimizer. The default is
// Levenberg-Marquardt; "nm", "lbfgs" and "newton" select the
// gonum/optimize methods.
func (f *EnvelopeFit) Solve() Result {
	if len(f.InitValues) == 0 {
		f.InitValues = f.findInitValues()
	}

	switch f.Mode {
	case "nm", "nelder-mead":
		return f.nmSolve()
	case "lbfgs":
		return f.lbfgsSolve()
	case "newton":
		return f.newtonSolve()
	}
	return f.lmSolve()
}

// findInitValues seeds the fit from the envelope itself: peak height,
// peak position and the moment width.
func (f *EnvelopeFit) findInitValues() []float64 {
	amp, pos := 0.0, 0.0
	for i, v := range f.Env {
		if v > amp {
			amp = v
			pos = f.Z[i]
		}
	}
	width := MomentWidth(f.Z, f.Env)
	if width == 0 {
		width = 1
	}
	return []float64{amp, pos, width}
}

func (f *EnvelopeFit) lmSolve() (result Result) {
	log.Println("LM envelope fit")
	result = Result{Params: []float64{}, Min: math.Inf(1), MinUnit: "MSR", Status: "ERROR"}

	fnc := func(dst, x []float64) {
		for i, zi := range f.Z {
			dst[i] = f.Env[i] - gaussianModel(zi, x)
		}
	}
	jac := lm.NumJac{Func: fnc}

	problem := lm.LMProblem{
		Dim:        len(f.InitValues),
		Size:       len(f.Env),
		Func:       fnc,
		Jac:        jac.Jac,
		InitParams: f.InitValues,
		Tau:        1e-13,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	// lm panics on singular Jacobians instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("LM fit panicked: %v", r)
		}
	}()

	start := time.Now()
	res, err := lm.LM(problem, &lm.Settings{Iterations: 1000, ObjectiveTol: 1e-16})
	if err != nil {
		log.Printf("LM fit failed: %v", err)
		return result
	}

	return Result{
		Params:  res.X,
		Min:     f.chiSq(res.X),
		MinUnit: "MSR",
		Runtime: time.Since(start).Seconds(),
		Status:  OK,
	}
}

func (f *EnvelopeFit) nmSolve() Result {
	log.Println("Nelder-Mead envelope fit")

	problem := optimize.Problem{
		Func: f.chiSq,
	}

	res, err := optimize.Minimize(problem, f.InitValues, nil, &optimize.NelderMead{})
	if err != nil {
		log.Printf("Nelder-Mead fit failed: %v", err)
		return Result{Params: []float64{}, Min: math.Inf(1), MinUnit: "MSR", Status: "ERROR"}
	}

	payload := map[string]interface{}{
		"majorIterations": res.MajorIterations,
		"funcEvaluations": res.FuncEvaluations,
	}

	return Result{
		Params:  res.X,
		Min:     res.F,
		MinUnit: "MSR",
		Runtime: res.Runtime.Seconds(),
		Status:  OK,
		Payload: payload,
	}
}

func (f *EnvelopeFit) lbfgsSolve() Result {
	log.Println("LBFGS envelope fit")

	grad := func(grad, x []float64) {
		fd.Gradient(grad, f.chiSq, x, nil)
	}

	problem := optimize.Problem{
		Func: f.chiSq,
		Grad: grad,
	}

	res, err := optimize.Minimize(problem, f.InitValues, nil, &optimize.LBFGS{})
	if err != nil {
		log.Printf("LBFGS fit error: %v", err)
		return Result{Params: []float64{}, Min: math.Inf(1), MinUnit: "MSR", Status: "ERROR"}
	}

	return Result{
		Params:  res.X,
		Min:     res.F,
		MinUnit: "MSR",
		Runtime: res.Runtime.Seconds(),
		Status:  OK,
	}
}

func (f *EnvelopeFit) newtonSolve() Result {
	log.Println("Newton envelope fit")

	grad := func(grad, x []float64) {
		fd.Gradient(grad, f.chiSq, x, nil)
	}

	hess := func(h *mat.SymDense, x []float64) {
		fd.Hessian(h, f.chiSq, x, nil)
	}

	problem := optimize.Problem{
		Func: f.chiSq,
		Grad: grad,
		Hess: hess,
	}

	res, err := optimize.Minimize(problem, f.InitValues, nil, &optimize.Newton{})
	if err != nil {
		log.Printf("Newton fit error: %v", err)
		return Result{Params: []float64{}, Min: math.Inf(1), MinUnit: "MSR", Status: "ERROR"}
	}

	return Result{
		Params:  res.X,
		Min:     res.F,
		MinUnit: "MSR",
		Runtime: res.Runtime.Seconds(),
		Status:  OK,
	}
}
