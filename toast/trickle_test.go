package toast

import (
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(size int, value float64) *sparse.DenseArray {
	img := sparse.ZerosDense(size, size)
	for i := range img.Elements {
		img.Elements[i] = value
	}
	return img
}

func Test_Absorb_uniformMerge(t *testing.T) {
	asm := NewAssembler(1, AverageMerge())
	var all []TileImage
	for _, root := range RootFaces() {
		done, err := asm.Absorb(root.Pos, uniform(2, 5))
		require.NoError(t, err)
		all = append(all, done...)
	}
	// 4 root tiles plus the level-0 tile merged from them
	require.Len(t, all, 5)
	level0 := all[len(all)-1]
	assert.Equal(t, Pos{0, 0, 0}, level0.Pos)
	assert.Equal(t, []int{2, 2}, level0.Image.Shape)
	for _, v := range level0.Image.Elements {
		assert.Equal(t, 5.0, v, "averaging equal children must preserve the value")
	}
}

func Test_Absorb_depthZero(t *testing.T) {
	asm := NewAssembler(0, AverageMerge())
	var all []TileImage
	for i, root := range RootFaces() {
		done, err := asm.Absorb(root.Pos, uniform(2, float64(i+1)))
		require.NoError(t, err)
		all = append(all, done...)
	}
	// the level-1 faces are above the requested depth: only the level-0
	// tile comes out
	require.Len(t, all, 1)
	assert.Equal(t, Pos{0, 0, 0}, all[0].Pos)
	assert.Equal(t, "0/0/0_0.png", all[0].Pos.Path())
	// one quadrant per root face, row major ul ur / ll lr
	assert.Equal(t, []float64{1, 2, 4, 3}, all[0].Image.Elements)
}

func Test_Absorb_fullRun(t *testing.T) {
	depth := 3
	asm := NewAssembler(depth, AverageMerge())
	it := IterCorners(depth, true)
	emitted := 0
	for {
		tile, ok := it.Next()
		if !ok {
			break
		}
		done, err := asm.Absorb(tile.Pos, uniform(1, 1))
		require.NoError(t, err)
		emitted += len(done)
		assert.LessOrEqual(t, asm.Pending(), 4*depth, "accumulator bound violated")
	}
	assert.Equal(t, DepthToTiles(depth), emitted)
	assert.Zero(t, asm.Pending(), "nothing may stay pending after a full run")
}

func Test_Absorb_noMerge(t *testing.T) {
	asm := NewAssembler(2, NoMerge)
	done, err := asm.Absorb(Pos{2, 0, 0}, uniform(1, 1))
	require.NoError(t, err)
	// emitted as-is, but not accumulated: without merging only level 1
	// reports to a parent
	require.Len(t, done, 1)
	assert.Zero(t, asm.Pending())

	done, err = asm.Absorb(Pos{1, 0, 0}, uniform(1, 1))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, 1, asm.Pending(), "level-1 faces still accumulate towards the level-0 tile")
}

func Test_Absorb_duplicateCornerPanics(t *testing.T) {
	asm := NewAssembler(2, AverageMerge())
	_, err := asm.Absorb(Pos{2, 0, 0}, uniform(1, 1))
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = asm.Absorb(Pos{2, 0, 0}, uniform(1, 1))
	})
}

func Test_Absorb_mismatchedSiblingShapes(t *testing.T) {
	asm := NewAssembler(2, AverageMerge())
	for i, pos := range []Pos{{2, 0, 0}, {2, 1, 0}, {2, 0, 1}} {
		_, err := asm.Absorb(pos, uniform(2, float64(i)))
		require.NoError(t, err)
	}
	_, err := asm.Absorb(Pos{2, 1, 1}, uniform(4, 0))
	assert.ErrorContains(t, err, "mismatching shapes")
}

func Test_Absorb_customMergeBadShape(t *testing.T) {
	asm := NewAssembler(1, CustomMerge(func(mosaic *sparse.DenseArray) *sparse.DenseArray {
		return mosaic // not downsampled
	}))
	var err error
	for _, root := range RootFaces() {
		_, err = asm.Absorb(root.Pos, uniform(2, 1))
	}
	assert.ErrorContains(t, err, "merge function returned shape")
}

func Test_NewAssembler_negativeDepthPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewAssembler(-1, AverageMerge())
	})
}
