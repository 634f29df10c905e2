// Package norm maps raw sampled values onto displayable 8-bit intensities.
package norm

import (
	"math"

	"github.com/creasty/defaults"
	"github.com/ctessum/sparse"
	"github.com/go-playground/validator/v10"

	"github.com/skytiler/toastel/mathhelp"
)

// Scaling names an intensity scaling curve.
type Scaling string

const (
	Linear  Scaling = "linear"
	Log     Scaling = "log"
	Sqrt    Scaling = "sqrt"
	Arcsinh Scaling = "arcsinh"
	Power   Scaling = "power"
)

// Params describe how raw values map onto the 0..255 range: VMin maps to
// black, VMax to white, Bias positions middle grey relative to that range
// and Contrast sets how fast the ramp runs.
type Params struct {
	VMin     float64
	VMax     float64 `validate:"gtfield=VMin"`
	Bias     float64 `default:"0.5" validate:"gte=0,lte=1"`
	Contrast float64 `default:"1" validate:"gt=0"`
	Scaling  Scaling `default:"linear" validate:"oneof=linear log sqrt arcsinh power"`
}

// Prepare fills in the defaults and validates the parameters.
func (p *Params) Prepare() error {
	if err := defaults.Set(p); err != nil {
		return err
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(p)
}

// Normalize scales every element into 0..255, rounded to whole intensities.
// The shape is kept; the input is not modified.
func Normalize(raw *sparse.DenseArray, p Params) *sparse.DenseArray {
	out := raw.Copy()
	span := p.VMax - p.VMin
	for i, v := range out.Elements {
		y := mathhelp.Clip((v-p.VMin)/span, 0, 1)
		y = mathhelp.Clip((y-p.Bias)*p.Contrast+0.5, 0, 1)
		out.Elements[i] = math.Round(curve(y, p.Scaling) * 255)
	}
	return out
}

func curve(y float64, s Scaling) float64 {
	switch s {
	case Log:
		return math.Log1p(999*y) / math.Log(1000)
	case Sqrt:
		return math.Sqrt(y)
	case Arcsinh:
		return math.Asinh(10*y) / math.Asinh(10)
	case Power:
		return y * y
	default:
		return y
	}
}
