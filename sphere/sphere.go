// Package sphere provides the spherical geometry primitives for tessellating
// the sky: great-circle midpoints and dense sub-sampling of spherical
// quadrilaterals into coordinate grids.
//
// Points are geom.Points holding (longitude, latitude) in radians.
package sphere

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/go-spatial/geom"
	"github.com/skytiler/toastel/mathhelp"
)

const (
	lonAx = 0
	latAx = 1
)

// Mid returns the geodesic midpoint of two points on the unit sphere.
func Mid(a, b geom.Point) geom.Point {
	ax, ay, az := cartesian(a)
	bx, by, bz := cartesian(b)
	mx, my, mz := ax+bx, ay+by, az+bz
	return geom.Point{
		math.Atan2(my, mx),
		math.Atan2(mz, math.Hypot(mx, my)),
	}
}

// Center returns the center of a quadrilateral (ul, ur, lr, ll), computed as
// the midpoint of one of its diagonals. The increasing flag selects the
// ll-ur diagonal, otherwise the ul-lr diagonal is used. The flag must be the
// same one used when the quadrilateral was subdivided, because for the root
// faces of an octahedral tessellation one of the two diagonals connects
// antipodal points and has no defined midpoint.
func Center(ul, ur, lr, ll geom.Point, increasing bool) geom.Point {
	if increasing {
		return Mid(ll, ur)
	}
	return Mid(ul, lr)
}

// Subsample covers the quadrilateral (ul, ur, lr, ll) with an n by n grid of
// points by recursive quartering, and returns their longitudes and latitudes
// as two [n][n] arrays (row major, row 0 at the top edge). n must be a power
// of two. Each grid point is the center of its sub-quadrilateral, computed
// with the same diagonal rule as Center, so a sampled tile lines up
// seamlessly with the tiles of its subdivided children.
func Subsample(ul, ur, lr, ll geom.Point, n int, increasing bool) (lon, lat *sparse.DenseArray) {
	if n < 1 || !mathhelp.IsPow2(uint(n)) {
		panic(fmt.Errorf("subsample grid size must be a power of two, got %d", n))
	}
	lon = sparse.ZerosDense(n, n)
	lat = sparse.ZerosDense(n, n)
	subsample(lon, lat, ul, ur, lr, ll, 0, 0, n, increasing)
	return lon, lat
}

func subsample(lon, lat *sparse.DenseArray, ul, ur, lr, ll geom.Point, x0, y0, size int, increasing bool) {
	if size == 1 {
		ce := Center(ul, ur, lr, ll, increasing)
		lon.Set(ce[lonAx], y0, x0)
		lat.Set(ce[latAx], y0, x0)
		return
	}
	to := Mid(ul, ur)
	ri := Mid(ur, lr)
	bo := Mid(lr, ll)
	le := Mid(ll, ul)
	ce := Center(ul, ur, lr, ll, increasing)
	h := size / 2
	subsample(lon, lat, ul, to, ce, le, x0, y0, h, increasing)
	subsample(lon, lat, to, ur, ri, ce, x0+h, y0, h, increasing)
	subsample(lon, lat, le, ce, bo, ll, x0, y0+h, h, increasing)
	subsample(lon, lat, ce, ri, lr, bo, x0+h, y0+h, h, increasing)
}

func cartesian(p geom.Point) (x, y, z float64) {
	cosLat := math.Cos(p[latAx])
	x = math.Cos(p[lonAx]) * cosLat
	y = math.Sin(p[lonAx]) * cosLat
	z = math.Sin(p[latAx])
	return x, y, z
}
