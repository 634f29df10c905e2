package norm

import (
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepared(t *testing.T, p Params) Params {
	t.Helper()
	require.NoError(t, p.Prepare())
	return p
}

func Test_Normalize_linear(t *testing.T) {
	raw := sparse.ZerosDense(2, 2)
	raw.Elements = []float64{-10, 0, 50, 200}
	p := prepared(t, Params{VMin: 0, VMax: 100})

	got := Normalize(raw, p)
	assert.Equal(t, []float64{0, 0, 128, 255}, got.Elements)
	assert.Equal(t, []float64{-10, 0, 50, 200}, raw.Elements, "input must not be modified")
}

func Test_Normalize_curves(t *testing.T) {
	raw := sparse.ZerosDense(1, 2)
	raw.Elements = []float64{25, 100}
	tests := []struct {
		scaling Scaling
		want    []float64
	}{
		{Sqrt, []float64{128, 255}},  // sqrt(0.25) = 0.5
		{Power, []float64{16, 255}},  // 0.25^2 = 0.0625
		{Linear, []float64{64, 255}}, // round(0.25 * 255)
	}
	for _, tt := range tests {
		t.Run(string(tt.scaling), func(t *testing.T) {
			p := prepared(t, Params{VMin: 0, VMax: 100, Scaling: tt.scaling})
			assert.Equal(t, tt.want, Normalize(raw, p).Elements)
		})
	}
}

func Test_Normalize_biasContrast(t *testing.T) {
	raw := sparse.ZerosDense(1, 1)
	raw.Elements = []float64{50}
	// a high bias darkens the midtones
	p := prepared(t, Params{VMin: 0, VMax: 100, Bias: 0.75})
	assert.Equal(t, []float64{64}, Normalize(raw, p).Elements)
	// extreme contrast pushes everything to black or white
	p = prepared(t, Params{VMin: 0, VMax: 100, Contrast: 1000})
	raw.Elements = []float64{51}
	assert.Equal(t, []float64{255}, Normalize(raw, p).Elements)
}

func Test_Params_Prepare(t *testing.T) {
	p := Params{VMin: 0, VMax: 1}
	require.NoError(t, p.Prepare())
	assert.Equal(t, 0.5, p.Bias)
	assert.Equal(t, 1.0, p.Contrast)
	assert.Equal(t, Linear, p.Scaling)

	bad := Params{VMin: 1, VMax: 0}
	assert.Error(t, bad.Prepare())
	bad = Params{VMin: 0, VMax: 1, Scaling: "cubic"}
	assert.Error(t, bad.Prepare())
}
