package toast

import (
	"fmt"
	"log"

	"github.com/creasty/defaults"
	"github.com/ctessum/sparse"
	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/truncate"

	"github.com/skytiler/toastel/mathhelp"
	"github.com/skytiler/toastel/sphere"
)

// A Sampler renders an image of the underlying dataset at the given
// longitude/latitude grids (radians). The returned image must have the
// grids' shape, plus an optional trailing channel dimension.
type Sampler func(lon, lat *sparse.DenseArray) (*sparse.DenseArray, error)

// Target persists finished tiles. WriteTile receives a path relative to the
// pyramid root, in the "<n>/<y>/<y>_<x>.png" layout.
type Target interface {
	WriteTile(pth string, img *sparse.DenseArray) error
}

// TargetFunc adapts a plain function to the Target interface.
type TargetFunc func(pth string, img *sparse.DenseArray) error

func (f TargetFunc) WriteTile(pth string, img *sparse.DenseArray) error {
	return f(pth, img)
}

// Options configure a pyramid build.
type Options struct {
	// Depth is the deepest tessellation level; 4^Depth tiles are sampled
	// there. Depth 0 produces only the level-0 tile.
	Depth int `validate:"gte=0"`
	// TileSize is the side of the square tiles in pixels, a power of two.
	TileSize int `default:"256" validate:"gte=1"`
	// Merge selects how tiles above the deepest level are produced.
	Merge Merge
}

// BuildPyramid samples and assembles a whole pyramid, writing every finished
// tile to the target. With merging enabled only the deepest level is sampled
// and all coarser tiles are downsampled from their children; without it,
// every tile is sampled directly. Sampler and target errors abort the build
// and propagate to the caller.
func BuildPyramid(sampler Sampler, target Target, opts Options) error {
	if err := defaults.Set(&opts); err != nil {
		return err
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf("invalid pyramid options: %w", err)
	}
	if !mathhelp.IsPow2(uint(opts.TileSize)) {
		return fmt.Errorf("tile size must be a power of two, got %d", opts.TileSize)
	}

	assembler := NewAssembler(opts.Depth, opts.Merge)
	total := DepthToTiles(opts.Depth)
	num := 0

	it := IterCorners(max(opts.Depth, 1), opts.Merge.Enabled())
	for {
		tile, ok := it.Next()
		if !ok {
			break
		}
		c := tile.Corners
		lon, lat := sphere.Subsample(c[ul], c[ur], c[lr], c[ll], opts.TileSize, tile.Increasing)
		img, err := sampler(lon, lat)
		if err != nil {
			return fmt.Errorf("sampling tile %v: %w", tile.Pos, err)
		}
		done, err := assembler.Absorb(tile.Pos, img)
		if err != nil {
			return err
		}
		for _, finished := range done {
			pth := finished.Pos.Path()
			if err := target.WriteTile(pth, finished.Image); err != nil {
				return fmt.Errorf("writing tile %v: %w", finished.Pos, err)
			}
			num++
			if num%10 == 0 {
				log.Printf("  finished %d of %d tiles (%s)", num, total,
					truncate.StringWithTail(pth, 32, "..."))
			}
		}
	}
	return nil
}
