package canopy

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// fallbackExtensions are tried in order for paths given without an extension.
var fallbackExtensions = []string{".png", ".jpg", ".bmp", ".webp"}

// imageLoader decodes images from an fs.FS.
type imageLoader struct {
	fsys fs.FS
}

func newImageLoader(cfg Config) *imageLoader {
	fsys := cfg.AssetFS
	if fsys == nil {
		fsys = os.DirFS(cfg.AssetDir)
	}
	return &imageLoader{fsys: fsys}
}

// Load reads and decodes name. Paths without an extension are retried with
// the common image extensions.
func (l *imageLoader) Load(name string) (*image.NRGBA, error) {
	data, err := l.read(name)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}

func (l *imageLoader) read(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err == nil || path.Ext(name) != "" || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	for _, ext := range fallbackExtensions {
		if data, perr := fs.ReadFile(l.fsys, name+ext); perr == nil {
			return data, nil
		}
	}
	return nil, err
}

// decodeImage sniffs the container type and decodes into NRGBA.
func decodeImage(data []byte) (*image.NRGBA, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("sniff: %v: %w", err, ErrInvalidData)
	}
	r := bytes.NewReader(data)
	var img image.Image
	switch kind.Extension {
	case "png":
		img, err = png.Decode(r)
	case "jpg":
		img, err = jpeg.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	case "gif":
		img, err = gif.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported image type %q: %w", kind.Extension, ErrInvalidData)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", kind.Extension, err, ErrInvalidData)
	}
	return convertNRGBA(img), nil
}

func convertNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
