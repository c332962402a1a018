// Package loader decodes the demo's texture and environment map assets and inspects glTF files.
package loader

import (
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders for the texture formats the demo accepts.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe"
)

// LoadImage opens and decodes an 8-bit image file into RGBA staging data.
//
// Parameters:
//   - path: the image file
//   - linear: marks data that must not be treated as sRGB (normal, roughness and ao maps)
//   - maxDim: the largest allowed width or height; larger images are downscaled preserving aspect, 0 disables
//
// Returns:
//   - common.TextureStagingData: tightly packed RGBA pixels
//   - error: wraps common.ErrAssetDecode
func LoadImage(path string, linear bool, maxDim uint32) (common.TextureStagingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("open %s: %v: %w", path, err, common.ErrAssetDecode)
	}
	defer f.Close()

	data, err := DecodeImage(f, linear, maxDim)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("%s: %w", path, err)
	}
	common.Logger().Debug("texture loaded", "path", path, "width", data.Width, "height", data.Height, "linear", linear)
	return data, nil
}

// DecodeImage is LoadImage for an already open stream.
func DecodeImage(r io.Reader, linear bool, maxDim uint32) (common.TextureStagingData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("decode image: %v: %w", err, common.ErrAssetDecode)
	}

	rgba := clone.AsRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if w == 0 || h == 0 {
		return common.TextureStagingData{}, fmt.Errorf("decode %s image: empty: %w", format, common.ErrAssetDecode)
	}
	if nw, nh, scaled := fitWithin(w, h, int(maxDim)); scaled {
		rgba = transform.Resize(rgba, nw, nh, transform.Linear)
		w, h = nw, nh
	}

	return common.TextureStagingData{
		Pixels: packRows(rgba.Pix, rgba.Stride, w*4, h),
		Width:  uint32(w),
		Height: uint32(h),
		Linear: linear,
	}, nil
}

// LoadHDR opens and decodes a Radiance RGBE (.hdr) file into float RGBA staging data.
//
// Parameters:
//   - path: the .hdr file
//
// Returns:
//   - common.HDRStagingData: four float32 per pixel, alpha 1
//   - error: wraps common.ErrAssetDecode
func LoadHDR(path string) (common.HDRStagingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.HDRStagingData{}, fmt.Errorf("open %s: %v: %w", path, err, common.ErrAssetDecode)
	}
	defer f.Close()

	data, err := DecodeHDR(f)
	if err != nil {
		return common.HDRStagingData{}, fmt.Errorf("%s: %w", path, err)
	}
	common.Logger().Debug("environment map loaded", "path", path, "width", data.Width, "height", data.Height)
	return data, nil
}

// DecodeHDR is LoadHDR for an already open stream.
func DecodeHDR(r io.Reader) (common.HDRStagingData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return common.HDRStagingData{}, fmt.Errorf("decode hdr: %v: %w", err, common.ErrAssetDecode)
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return common.HDRStagingData{}, fmt.Errorf("decode hdr: %s is not a high dynamic range format: %w", format, common.ErrAssetDecode)
	}

	b := hdrImg.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]float32, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := hdrImg.HDRAt(x, y).HDRRGBA()
			pixels = append(pixels, float32(cr), float32(cg), float32(cb), 1)
		}
	}
	return common.HDRStagingData{Pixels: pixels, Width: uint32(w), Height: uint32(h)}, nil
}

// fitWithin scales (w, h) down so neither side exceeds maxDim.
func fitWithin(w, h, maxDim int) (int, int, bool) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h, false
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w), true
	}
	return max(1, w*maxDim/h), maxDim, true
}

// packRows drops any stride padding so rows are exactly rowBytes apart.
func packRows(pix []byte, stride, rowBytes, rows int) []byte {
	if stride == rowBytes {
		return pix[:rowBytes*rows]
	}
	out := make([]byte, rowBytes*rows)
	for y := 0; y < rows; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], pix[y*stride:y*stride+rowBytes])
	}
	return out
}
