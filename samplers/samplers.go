// Package samplers provides data samplers for pyramid building: functions
// that look up an underlying dataset at grids of spherical coordinates.
package samplers

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"

	"github.com/skytiler/toastel/mathhelp"
	"github.com/skytiler/toastel/norm"
	"github.com/skytiler/toastel/toast"
)

// Cartesian returns a sampler for a dataset in the equirectangular (plate
// carree) projection, oriented with longitude increasing to the left and
// (lon, lat) = (0, 0) at the center pixel. The map must be twice as wide as
// it is tall and may carry a trailing channel dimension.
func Cartesian(data *sparse.DenseArray) (toast.Sampler, error) {
	if len(data.Shape) != 2 && len(data.Shape) != 3 {
		return nil, fmt.Errorf("map must be a 2d image with optional channels, got shape %v", data.Shape)
	}
	ny, nx := data.Shape[0], data.Shape[1]
	chans := 1
	if len(data.Shape) == 3 {
		chans = data.Shape[2]
	}
	if nx != 2*ny {
		return nil, fmt.Errorf("map must be twice as wide as it is tall, got %d x %d", nx, ny)
	}

	return func(lon, lat *sparse.DenseArray) (*sparse.DenseArray, error) {
		out := zerosLike(lon, chans)
		for i, l := range lon.Elements {
			l = math.Mod(l+math.Pi, 2*math.Pi)
			if l < 0 {
				l += 2 * math.Pi
			}
			x := mathhelp.Clip(int(float64(nx)*(1-l/(2*math.Pi))), 0, nx-1)
			y := mathhelp.Clip(int(float64(ny)*(1-(lat.Elements[i]+math.Pi/2)/math.Pi)), 0, ny-1)
			copy(out.Elements[i*chans:(i+1)*chans], data.Elements[(y*nx+x)*chans:(y*nx+x+1)*chans])
		}
		return out, nil
	}, nil
}

// Constant returns a sampler that fills every tile with a single value.
func Constant(value float64) toast.Sampler {
	return func(lon, _ *sparse.DenseArray) (*sparse.DenseArray, error) {
		out := zerosLike(lon, 1)
		for i := range out.Elements {
			out.Elements[i] = value
		}
		return out, nil
	}
}

// Normalized wraps a sampler with an intensity normalization so that the
// sampled values come out as 0..255 intensities. The parameters are
// defaulted and validated once, up front.
func Normalized(sampler toast.Sampler, params norm.Params) (toast.Sampler, error) {
	if err := params.Prepare(); err != nil {
		return nil, fmt.Errorf("invalid normalization parameters: %w", err)
	}
	return func(lon, lat *sparse.DenseArray) (*sparse.DenseArray, error) {
		raw, err := sampler(lon, lat)
		if err != nil {
			return nil, err
		}
		return norm.Normalize(raw, params), nil
	}, nil
}

func zerosLike(grid *sparse.DenseArray, chans int) *sparse.DenseArray {
	if chans > 1 {
		return sparse.ZerosDense(grid.Shape[0], grid.Shape[1], chans)
	}
	return sparse.ZerosDense(grid.Shape[0], grid.Shape[1])
}
