// Package toast builds multi-resolution TOAST image pyramids: a recursive
// quadtree tessellation of the sphere into four root faces, each quartered
// down to a requested depth, with every node bearing a square image sampled
// from a caller-supplied dataset or merged up from its four children.
package toast

import (
	"fmt"
	"math"
	"path"
	"strconv"

	"github.com/go-spatial/geom"
	"github.com/skytiler/toastel/mathhelp"
	"github.com/skytiler/toastel/sphere"
)

// corner indexes within Corners
const (
	ul = 0
	ur = 1
	lr = 2
	ll = 3
)

// Pos identifies one tile in the TOAST quadtree. N is the tessellation
// level; the four root faces live on level 1. X and Y range over [0, 2^N).
type Pos struct {
	N int
	X int
	Y int
}

// Corners are the spherical corner points of a tile's quadrilateral
// footprint, ordered upper-left, upper-right, lower-right, lower-left,
// each holding (longitude, latitude) in radians.
type Corners [4]geom.Point

// Tile couples a tile address with its spherical footprint and the diagonal
// orientation inherited from its root face.
type Tile struct {
	Pos        Pos
	Corners    Corners
	Increasing bool
}

// rootFaces are the four level-1 tiles, an octahedron inscribed in the
// sphere. The orientation flags alternate so that subdivision never takes
// the midpoint of an antipodal diagonal.
var rootFaces = [4]Tile{
	{Pos{1, 0, 0}, cornersDeg(0, -90, 90, 0, 0, 90, 180, 0), true},
	{Pos{1, 1, 0}, cornersDeg(90, 0, 0, -90, 0, 0, 0, 90), false},
	{Pos{1, 1, 1}, cornersDeg(0, 90, 0, 0, 0, -90, 270, 0), true},
	{Pos{1, 0, 1}, cornersDeg(180, 0, 0, 90, 270, 0, 0, -90), false},
}

func cornersDeg(ulLon, ulLat, urLon, urLat, lrLon, lrLat, llLon, llLat float64) Corners {
	rad := func(lon, lat float64) geom.Point {
		return geom.Point{lon * math.Pi / 180, lat * math.Pi / 180}
	}
	return Corners{rad(ulLon, ulLat), rad(urLon, urLat), rad(lrLon, lrLat), rad(llLon, llLat)}
}

// RootFaces returns the four root tiles in traversal order.
func RootFaces() [4]Tile {
	return rootFaces
}

// Parent returns the address of the tile's parent and the corner position
// (x, y each 0 or 1) this tile occupies within the parent's 2x2 block.
func (p Pos) Parent() (parent Pos, xc, yc int) {
	return Pos{N: p.N - 1, X: p.X / 2, Y: p.Y / 2}, p.X % 2, p.Y % 2
}

// Path returns the relative path where the tile image is stored:
// "<n>/<y>/<y>_<x>.png". The layout is a compatibility contract with TOAST
// viewers and is reproduced exactly.
func (p Pos) Path() string {
	return path.Join(strconv.Itoa(p.N), strconv.Itoa(p.Y), fmt.Sprintf("%d_%d.png", p.Y, p.X))
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d: %d,%d)", p.N, p.X, p.Y)
}

// Subdivide splits the tile into its four children, in the fixed order
// (2x,2y), (2x+1,2y), (2x,2y+1), (2x+1,2y+1). Children inherit the
// orientation flag unchanged.
func (t Tile) Subdivide() [4]Tile {
	c := t.Corners
	to := sphere.Mid(c[ul], c[ur])
	ri := sphere.Mid(c[ur], c[lr])
	bo := sphere.Mid(c[lr], c[ll])
	le := sphere.Mid(c[ll], c[ul])
	ce := sphere.Center(c[ul], c[ur], c[lr], c[ll], t.Increasing)

	n, x, y := t.Pos.N+1, 2*t.Pos.X, 2*t.Pos.Y
	return [4]Tile{
		{Pos{n, x, y}, Corners{c[ul], to, ce, le}, t.Increasing},
		{Pos{n, x + 1, y}, Corners{to, c[ur], ri, ce}, t.Increasing},
		{Pos{n, x, y + 1}, Corners{le, ce, bo, c[ll]}, t.Increasing},
		{Pos{n, x + 1, y + 1}, Corners{ce, ri, c[lr], bo}, t.Increasing},
	}
}

// DepthToTiles returns the total number of tiles a pyramid of the given
// depth holds across all levels, including the single level-0 tile.
func DepthToTiles(depth int) int {
	return int(mathhelp.Pow4Sum(uint(max(depth, 0))))
}
