package canvas

// #region tensor

// Channels is the number of color channels in every encoded tensor.
const Channels = 3

// Tensor is a fixed-shape H×W×3 array of normalized values in [0,1],
// stored row-major with the channel as the fastest-varying index. It is
// produced once per encode call and never mutated afterwards.
type Tensor struct {
	H, W int
	Data []float64
}

// NewTensor allocates a zero tensor of the given square size.
func NewTensor(h, w int) Tensor {
	return Tensor{H: h, W: w, Data: make([]float64, h*w*Channels)}
}

// At returns the value at row y, column x, channel c.
func (t Tensor) At(y, x, c int) float64 {
	return t.Data[(y*t.W+x)*Channels+c]
}

// add accumulates v into the cell at (y, x, c).
func (t Tensor) add(y, x, c int, v float64) {
	t.Data[(y*t.W+x)*Channels+c] += v
}

// Flat returns the backing array: length H*W*3, row-major, channel-minor.
// This is the layout golden fixtures store.
func (t Tensor) Flat() []float64 {
	return t.Data
}

// clamp bounds every value to [0,1] in place. Runs once, as the final
// encoding step.
func (t Tensor) clamp() {
	for i, v := range t.Data {
		if v < 0 {
			t.Data[i] = 0
		} else if v > 1 {
			t.Data[i] = 1
		}
	}
}

// #endregion tensor

// #region resize

// resizeNearest maps a source tensor to dst×dst using nearest-neighbor
// sampling: src index = floor(dstIndex * srcSize / dstSize). Nearest-neighbor
// is pinned as the interpolation rule: it involves no blending arithmetic,
// so two implementations cannot drift in rounding.
func resizeNearest(src Tensor, dst int) Tensor {
	if src.H == dst && src.W == dst {
		return src
	}
	out := NewTensor(dst, dst)
	for y := 0; y < dst; y++ {
		sy := y * src.H / dst
		for x := 0; x < dst; x++ {
			sx := x * src.W / dst
			for c := 0; c < Channels; c++ {
				out.Data[(y*dst+x)*Channels+c] = src.At(sy, sx, c)
			}
		}
	}
	return out
}

// #endregion resize
