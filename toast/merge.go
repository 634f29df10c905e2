package toast

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// A MergeFunc downsamples a 2S by 2S mosaic of four finished sibling tiles
// into the S by S image of their parent. It receives the full mosaic rather
// than the individual children, so a reducer may blend across tile seams.
type MergeFunc func(mosaic *sparse.DenseArray) *sparse.DenseArray

// Merge configures how tiles above the deepest level are produced. The zero
// value disables merging: every tile at every level is sampled directly.
type Merge struct {
	enabled bool
	reduce  MergeFunc
}

// NoMerge samples every tile directly instead of downsampling children.
var NoMerge = Merge{}

// AverageMerge produces parent tiles by averaging each 2x2 block of the
// child mosaic. This is the default policy.
func AverageMerge() Merge {
	return Merge{enabled: true, reduce: averageMosaic}
}

// CustomMerge produces parent tiles with a caller-supplied reducer, e.g.
// max-pooling to keep sparse bright features visible at low resolution.
func CustomMerge(reduce MergeFunc) Merge {
	return Merge{enabled: true, reduce: reduce}
}

// Enabled reports whether parent tiles are merged from children.
func (m Merge) Enabled() bool {
	return m.enabled
}

func (m Merge) reducer() MergeFunc {
	if m.reduce == nil {
		return averageMosaic
	}
	return m.reduce
}

// averageMosaic averages each 2x2 pixel block, halving both image axes and
// keeping the channel axis if present.
func averageMosaic(mosaic *sparse.DenseArray) *sparse.DenseArray {
	h, w, chans := imageShape(mosaic)
	oh, ow := h/2, w/2
	var out *sparse.DenseArray
	if len(mosaic.Shape) == 3 {
		out = sparse.ZerosDense(oh, ow, chans)
	} else {
		out = sparse.ZerosDense(oh, ow)
	}
	for y := 0; y < oh; y++ {
		for x := 0; x < ow; x++ {
			for c := 0; c < chans; c++ {
				sum := mosaic.Elements[((2*y)*w+2*x)*chans+c] +
					mosaic.Elements[((2*y)*w+2*x+1)*chans+c] +
					mosaic.Elements[((2*y+1)*w+2*x)*chans+c] +
					mosaic.Elements[((2*y+1)*w+2*x+1)*chans+c]
				out.Elements[(y*ow+x)*chans+c] = sum / 4
			}
		}
	}
	return out
}

// mosaicImages stitches four equally shaped sibling images into one image
// with both axes doubled, row major: [[ul, ur], [ll, lr]].
func mosaicImages(imgs [2][2]*sparse.DenseArray) (*sparse.DenseArray, error) {
	h, w, chans := imageShape(imgs[0][0])
	for yc := 0; yc < 2; yc++ {
		for xc := 0; xc < 2; xc++ {
			ih, iw, ic := imageShape(imgs[yc][xc])
			if ih != h || iw != w || ic != chans {
				return nil, fmt.Errorf("sibling tiles have mismatching shapes: %v vs %v",
					imgs[0][0].Shape, imgs[yc][xc].Shape)
			}
		}
	}
	var out *sparse.DenseArray
	if len(imgs[0][0].Shape) == 3 {
		out = sparse.ZerosDense(2*h, 2*w, chans)
	} else {
		out = sparse.ZerosDense(2*h, 2*w)
	}
	rowLen := w * chans
	for yc := 0; yc < 2; yc++ {
		for xc := 0; xc < 2; xc++ {
			img := imgs[yc][xc]
			for y := 0; y < h; y++ {
				src := img.Elements[y*rowLen : (y+1)*rowLen]
				off := ((yc*h+y)*2*w + xc*w) * chans
				copy(out.Elements[off:off+rowLen], src)
			}
		}
	}
	return out, nil
}

// imageShape interprets a DenseArray as an image: height, width and number
// of channels (1 for a 2-dimensional array).
func imageShape(img *sparse.DenseArray) (h, w, chans int) {
	h, w, chans = img.Shape[0], img.Shape[1], 1
	if len(img.Shape) == 3 {
		chans = img.Shape[2]
	}
	return h, w, chans
}
