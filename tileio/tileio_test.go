package tileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SavePNG_roundtrip(t *testing.T) {
	img := sparse.ZerosDense(2, 2)
	img.Elements = []float64{0, 300, -5, 128} // clipped to 0, 255, 0, 128

	pth := filepath.Join(t.TempDir(), "deep", "er", "tile.png")
	require.NoError(t, SavePNG(pth, img))

	got, err := LoadImage(pth)
	require.NoError(t, err)
	require.Equal(t, []int{2, 2}, got.Shape)
	assert.Equal(t, []float64{0, 255, 0, 128}, got.Elements)
}

func Test_SavePNG_rgbRoundtrip(t *testing.T) {
	img := sparse.ZerosDense(1, 2, 3)
	img.Elements = []float64{10, 20, 30, 40, 50, 60}

	pth := filepath.Join(t.TempDir(), "tile.png")
	require.NoError(t, SavePNG(pth, img))

	got, err := LoadImage(pth)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, got.Shape)
	assert.Equal(t, img.Elements, got.Elements)
}

func Test_SavePNG_overwrites(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "tile.png")
	require.NoError(t, SavePNG(pth, uniformGray(2, 1)))
	require.NoError(t, SavePNG(pth, uniformGray(2, 9)))
	got, err := LoadImage(pth)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Elements[0])
}

func Test_SavePNG_rejectsBadShape(t *testing.T) {
	assert.Error(t, SavePNG(filepath.Join(t.TempDir(), "t.png"), sparse.ZerosDense(4)))
	assert.Error(t, SavePNG(filepath.Join(t.TempDir(), "t.png"), sparse.ZerosDense(2, 2, 2)))
}

func Test_DirTarget(t *testing.T) {
	base := t.TempDir()
	target := &DirTarget{BaseDir: base}
	require.NoError(t, target.WriteTile("3/2/2_5.png", uniformGray(2, 7)))

	_, err := os.Stat(filepath.Join(base, "3", "2", "2_5.png"))
	assert.NoError(t, err)
}

func Test_LoadImage_missingFile(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func uniformGray(size int, value float64) *sparse.DenseArray {
	img := sparse.ZerosDense(size, size)
	for i := range img.Elements {
		img.Elements[i] = value
	}
	return img
}
