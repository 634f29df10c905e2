// Package tileio persists tiles as PNG files and loads source maps into
// numeric arrays.
package tileio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	_ "image/jpeg" // source maps may be JPEG

	"github.com/ctessum/sparse"

	"github.com/skytiler/toastel/mathhelp"
	"github.com/skytiler/toastel/toast"
)

// DirTarget writes tiles into a directory hierarchy under BaseDir, creating
// intermediate directories as needed.
type DirTarget struct {
	BaseDir string
}

var _ toast.Target = (*DirTarget)(nil)

func (t *DirTarget) WriteTile(pth string, img *sparse.DenseArray) error {
	return SavePNG(filepath.Join(t.BaseDir, filepath.FromSlash(pth)), img)
}

// SavePNG writes an image to pth, creating parent directories as needed and
// overwriting an existing file. Arrays of shape [h][w] become 8-bit
// grayscale, [h][w][3] RGB and [h][w][4] RGBA; values are clipped to 0..255.
func SavePNG(pth string, img *sparse.DenseArray) error {
	m, err := toImage(img)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", pth, err)
	}
	if err := os.MkdirAll(filepath.Dir(pth), 0o755); err != nil {
		return err
	}
	f, err := os.Create(pth)
	if err != nil {
		return err
	}
	if err := png.Encode(f, m); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", pth, err)
	}
	return f.Close()
}

func toImage(img *sparse.DenseArray) (image.Image, error) {
	if len(img.Shape) != 2 && len(img.Shape) != 3 {
		return nil, fmt.Errorf("tile must be a 2d image with optional channels, got shape %v", img.Shape)
	}
	h, w := img.Shape[0], img.Shape[1]
	chans := 1
	if len(img.Shape) == 3 {
		chans = img.Shape[2]
	}
	switch chans {
	case 1:
		gray := image.NewGray(image.Rect(0, 0, w, h))
		for i, v := range img.Elements {
			gray.Pix[i] = toByte(v)
		}
		return gray, nil
	case 3, 4:
		m := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				px := img.Elements[(y*w+x)*chans : (y*w+x+1)*chans]
				a := uint8(255)
				if chans == 4 {
					a = toByte(px[3])
				}
				m.SetNRGBA(x, y, color.NRGBA{toByte(px[0]), toByte(px[1]), toByte(px[2]), a})
			}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported channel count %d", chans)
	}
}

func toByte(v float64) uint8 {
	return uint8(mathhelp.Clip(v, 0, 255))
}

// LoadImage reads a PNG or JPEG file into an array of shape [h][w] for
// grayscale sources or [h][w][3] otherwise, with values 0..255.
func LoadImage(pth string) (*sparse.DenseArray, error) {
	f, err := os.Open(pth)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", pth, err)
	}

	bounds := m.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if gray, isGray := m.(*image.Gray); isGray {
		out := sparse.ZerosDense(h, w)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Elements[y*w+x] = float64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
		return out, nil
	}
	out := sparse.ZerosDense(h, w, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := m.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			out.Elements[i] = float64(r >> 8)
			out.Elements[i+1] = float64(g >> 8)
			out.Elements[i+2] = float64(b >> 8)
		}
	}
	return out, nil
}
