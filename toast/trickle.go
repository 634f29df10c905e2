package toast

import (
	"fmt"

	"github.com/ctessum/sparse"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TileImage is a finished tile ready for persistence.
type TileImage struct {
	Pos   Pos
	Image *sparse.DenseArray
}

// An Assembler trickles freshly rendered tiles up the pyramid: it keeps the
// images of incomplete sibling sets and, once all four children of a parent
// have arrived, stitches and downsamples them into the parent's image,
// recursing upward. All state is confined to the instance, so independent
// pyramids can be assembled concurrently with separate Assemblers.
type Assembler struct {
	depth   int
	merge   Merge
	pending *orderedmap.OrderedMap[Pos, *siblings]
	held    int // images held across all pending parents
}

type siblings struct {
	imgs  [2][2]*sparse.DenseArray // indexed [yc][xc]
	count int
}

// NewAssembler creates an assembler for a pyramid of the given depth.
// Depth 0 is valid and yields the single level-0 tile merged from the four
// root faces. Negative depth is a caller error.
func NewAssembler(depth int, merge Merge) *Assembler {
	if depth < 0 {
		panic(fmt.Errorf("pyramid depth must not be negative, got %d", depth))
	}
	return &Assembler{
		depth:   depth,
		merge:   merge,
		pending: orderedmap.New[Pos, *siblings](),
	}
}

// Absorb takes the image just produced for a tile and returns the tiles that
// are now finished: the tile itself when its level is within the requested
// depth, plus any ancestors whose sibling sets it completed. It must be
// called exactly once per traversal node, in the order IterCorners produced
// them; otherwise more than one sibling set per subtree could be in flight
// and the accumulator bound would not hold.
func (a *Assembler) Absorb(pos Pos, img *sparse.DenseArray) ([]TileImage, error) {
	var done []TileImage
	err := a.absorb(pos, img, &done)
	return done, err
}

func (a *Assembler) absorb(pos Pos, img *sparse.DenseArray, done *[]TileImage) error {
	if a.held > 4*max(a.depth, 1) {
		panic(fmt.Errorf("%d images pending for %d parents, traversal order violated",
			a.held, a.pending.Len()))
	}

	// At depth 0 the roots themselves (level 1) are not output, only the
	// level-0 tile merged from them.
	if a.depth >= pos.N {
		*done = append(*done, TileImage{Pos: pos, Image: img})
	}
	if pos.N == 0 {
		return nil
	}
	// Without merging only the level-1 faces report to a parent (producing
	// the level-0 tile); everything deeper is sampled independently.
	if !a.merge.enabled && pos.N > 1 {
		return nil
	}

	parent, xc, yc := pos.Parent()
	sibs, ok := a.pending.Get(parent)
	if !ok {
		sibs = &siblings{}
		a.pending.Set(parent, sibs)
	}
	if sibs.imgs[yc][xc] != nil {
		panic(fmt.Errorf("corner (%d,%d) of parent %v filled twice, traversal order violated", xc, yc, parent))
	}
	sibs.imgs[yc][xc] = img
	sibs.count++
	a.held++
	if sibs.count < 4 {
		return nil
	}

	a.pending.Delete(parent)
	a.held -= 4
	mosaic, err := mosaicImages(sibs.imgs)
	if err != nil {
		return fmt.Errorf("assembling parent %v: %w", parent, err)
	}
	merged := a.merge.reducer()(mosaic)
	if err := checkMergedShape(mosaic, merged); err != nil {
		return fmt.Errorf("merging parent %v: %w", parent, err)
	}
	return a.absorb(parent, merged, done)
}

// Pending returns how many child images are currently held for incomplete
// parents. It never exceeds 4 times the depth (or 4 at depth 0).
func (a *Assembler) Pending() int {
	return a.held
}

func checkMergedShape(mosaic, merged *sparse.DenseArray) error {
	h, w, chans := imageShape(mosaic)
	if merged == nil {
		return fmt.Errorf("merge function returned no image")
	}
	mh, mw, mc := imageShape(merged)
	if len(merged.Shape) != len(mosaic.Shape) || mh != h/2 || mw != w/2 || mc != chans {
		return fmt.Errorf("merge function returned shape %v for mosaic %v, want both image axes halved",
			merged.Shape, mosaic.Shape)
	}
	return nil
}
