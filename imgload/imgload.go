// Package imgload is the ImageLoader capability (component out-of-core,
// spec.md §1: "an ImageLoader capability (decode path → pixels/dimensions/
// channels)"). It decodes PNG/JPEG via the standard library and BMP via
// golang.org/x/image/bmp, always returning tightly packed RGBA8 pixels.
package imgload

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/bmp"
)

func init() {
	// golang.org/x/image/bmp does not self-register like image/png and
	// image/jpeg; wire it into image.Decode's format sniffing explicitly.
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}

// Image is a decoded texture source: width, height, channel count (always 4,
// RGBA8) and the packed pixel bytes.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte // len == Width*Height*Channels, row-major, top-left origin
}

// Loader is the decode-path capability the interpreter's texture2D←string
// coercion (spec.md §4.E.12) calls through.
type Loader interface {
	Load(path string) (Image, error)
}

// FileLoader reads from the OS filesystem relative to Root (empty Root means
// paths are used as given, matching a `.gfx` script's own working directory).
type FileLoader struct {
	Root string
}

// NewFileLoader returns a FileLoader rooted at root.
func NewFileLoader(root string) *FileLoader { return &FileLoader{Root: root} }

func (l *FileLoader) Load(path string) (Image, error) {
	full := path
	if l.Root != "" {
		full = l.Root + string(os.PathSeparator) + path
	}
	f, err := os.Open(full)
	if err != nil {
		return Image{}, fmt.Errorf("imgload: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("imgload: decode %s: %w", path, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*4)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			pix[i+0] = byte(r >> 8)
			pix[i+1] = byte(g >> 8)
			pix[i+2] = byte(bl >> 8)
			pix[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return Image{Width: w, Height: h, Channels: 4, Pixels: pix}, nil
}
