package canopy

import (
	"fmt"
	"image"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font describes how Bitmap.DrawText renders text.
type Font struct {
	// Name is a font file in the asset filesystem, with or without its
	// .ttf or .otf extension. Empty selects the built-in Go fonts.
	Name   string
	Size   int
	Bold   bool
	Italic bool
	Color  Color

	Outline  bool
	OutColor Color
	Shadow   bool
}

// DefaultFont returns the font new bitmaps start with.
func (e *Engine) DefaultFont() Font {
	api := e.cfg.APIVersion
	return Font{
		Name:     e.cfg.DefaultFont,
		Size:     int(e.cfg.FontSize),
		Color:    ColorWhite,
		Outline:  api >= 2,
		OutColor: Color{0, 0, 0, 0.5},
		Shadow:   api == 2,
	}
}

type faceKey struct {
	name         string
	size         int
	bold, italic bool
}

// fontCache parses font files once and keeps one face per size and style.
type fontCache struct {
	fsys  fs.FS
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

func newFontCache(fsys fs.FS) *fontCache {
	return &fontCache{
		fsys:  fsys,
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

func (c *fontCache) close() {
	for k, f := range c.faces {
		_ = f.Close()
		delete(c.faces, k)
	}
}

func builtinFont(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

// parsed returns the parsed font for f, falling back to the built-in Go
// fonts when f.Name cannot be found.
func (c *fontCache) parsed(f Font) (*opentype.Font, string, error) {
	name := f.Name
	var data []byte
	if name != "" && c.fsys != nil {
		data = c.lookup(name)
		if data == nil {
			Logger().Warn("font not found, using built-in", "name", name)
		}
	}
	if data == nil {
		name = fmt.Sprintf("go:%t:%t", f.Bold, f.Italic)
		data = builtinFont(f.Bold, f.Italic)
	}
	if otf, ok := c.fonts[name]; ok {
		return otf, name, nil
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %v: %w", name, err, ErrNoFont)
	}
	c.fonts[name] = otf
	return otf, name, nil
}

func (c *fontCache) lookup(name string) []byte {
	candidates := []string{name}
	if path.Ext(name) == "" {
		candidates = append(candidates, name+".ttf", name+".otf", strings.ToLower(name)+".ttf")
	}
	for _, p := range candidates {
		if data, err := fs.ReadFile(c.fsys, p); err == nil {
			return data
		}
	}
	return nil
}

func (c *fontCache) face(f Font) (font.Face, error) {
	if f.Size <= 0 {
		return nil, fmt.Errorf("font size %d: %w", f.Size, ErrOutOfRange)
	}
	otf, name, err := c.parsed(f)
	if err != nil {
		return nil, err
	}
	key := faceKey{name: name, size: f.Size, bold: f.Bold, italic: f.Italic}
	if face, ok := c.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    float64(f.Size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face %s %d: %v: %w", name, f.Size, err, ErrNoFont)
	}
	c.faces[key] = face
	return face, nil
}

func textExtent(face font.Face, text string) (w, h int) {
	m := face.Metrics()
	return font.MeasureString(face, text).Ceil(), (m.Ascent + m.Descent).Ceil()
}

// measure returns the size of text without outline or shadow padding.
func (c *fontCache) measure(f Font, text string) (int, int, error) {
	face, err := c.face(f)
	if err != nil {
		return 0, 0, err
	}
	w, h := textExtent(face, text)
	return w, h, nil
}

var outlineOffsets = [8]image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// render rasterizes text with opaque glyphs; the font color's alpha is
// applied when the surface is drawn. It returns nil for empty text.
func (c *fontCache) render(f Font, text string) (*image.NRGBA, error) {
	if text == "" {
		return nil, nil
	}
	face, err := c.face(f)
	if err != nil {
		return nil, err
	}
	w, h := textExtent(face, text)
	if w <= 0 || h <= 0 {
		return nil, nil
	}
	pad := 0
	if f.Outline {
		pad = 1
	}
	extra := 0
	if f.Shadow {
		extra = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, w+2*pad+extra, h+2*pad+extra))
	ascent := face.Metrics().Ascent.Ceil()

	drawAt := func(dx, dy int, col Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(col.NRGBA()),
			Face: face,
			Dot:  fixed.P(pad+dx, pad+ascent+dy),
		}
		d.DrawString(text)
	}
	if f.Shadow {
		drawAt(1, 1, Color{0, 0, 0, 1})
	}
	if f.Outline {
		for _, o := range outlineOffsets {
			drawAt(o.X, o.Y, f.OutColor)
		}
	}
	fill := f.Color
	fill.A = 1
	drawAt(0, 0, fill)
	return img, nil
}
