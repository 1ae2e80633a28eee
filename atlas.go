package canopy

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
)

// Region is a named frame of a sprite sheet.
type Region struct {
	Page     int   // index into SpriteSheet.Pages
	Rect     Rect  // frame within the page
	Offset   Point // trim offset inside the untrimmed frame
	Original Point // untrimmed size
	Rotated  bool  // stored 90 degrees clockwise
}

// SpriteSheet is a set of page bitmaps and the named regions packed into
// them, as exported by TexturePacker.
type SpriteSheet struct {
	Pages   []*Bitmap
	regions map[string]Region
}

// Region returns the region called name.
func (s *SpriteSheet) Region(name string) (Region, bool) {
	r, ok := s.regions[name]
	return r, ok
}

// Len returns the number of regions.
func (s *SpriteSheet) Len() int { return len(s.regions) }

// Apply points sp at the region called name: bitmap, source rect and an
// origin that keeps trimmed frames aligned to their untrimmed box.
func (s *SpriteSheet) Apply(sp *Sprite, name string) error {
	r, ok := s.regions[name]
	if !ok {
		return opError("sprite sheet apply", fmt.Errorf("region %q: %w", name, ErrOutOfRange))
	}
	if r.Rotated {
		return opError("sprite sheet apply", fmt.Errorf("region %q is rotated: %w", name, ErrInvalidData))
	}
	if r.Page < 0 || r.Page >= len(s.Pages) {
		return opError("sprite sheet apply", fmt.Errorf("region %q page %d: %w", name, r.Page, ErrOutOfRange))
	}
	if err := sp.SetBitmap(s.Pages[r.Page]); err != nil {
		return err
	}
	sp.SetSrcRect(r.Rect)
	sp.SetOX(-r.Offset.X)
	sp.SetOY(-r.Offset.Y)
	return nil
}

// LoadSpriteSheet parses TexturePacker JSON and associates the given page
// bitmaps. Both the hash format (a single "frames" object) and the array
// format (a "textures" list with per-page frames) are accepted.
func LoadSpriteSheet(jsonData []byte, pages []*Bitmap) (*SpriteSheet, error) {
	var head struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &head); err != nil {
		return nil, opError("load sprite sheet", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}

	sheet := &SpriteSheet{Pages: pages, regions: make(map[string]Region)}
	var err error
	switch {
	case head.Textures != nil:
		err = parseArrayFormat(head.Textures, sheet)
	case head.Frames != nil:
		err = parseHashFrames(head.Frames, 0, sheet)
	default:
		err = fmt.Errorf("neither \"frames\" nor \"textures\": %w", ErrInvalidData)
	}
	if err != nil {
		return nil, opError("load sprite sheet", err)
	}
	return sheet, nil
}

// LoadSpriteSheetFile reads a TexturePacker JSON file from the asset
// filesystem and loads every page image it names, relative to the file.
func LoadSpriteSheetFile(e *Engine, name string) (*SpriteSheet, error) {
	data, err := fs.ReadFile(e.loader.fsys, name)
	if err != nil {
		return nil, opError("load sprite sheet", err)
	}
	var meta struct {
		Meta struct {
			Image string `json:"image"`
		} `json:"meta"`
		Textures []struct {
			Image string `json:"image"`
		} `json:"textures"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, opError("load sprite sheet", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}
	images := []string{meta.Meta.Image}
	if len(meta.Textures) > 0 {
		images = images[:0]
		for _, t := range meta.Textures {
			images = append(images, t.Image)
		}
	}

	pages := make([]*Bitmap, 0, len(images))
	for _, img := range images {
		b, err := LoadBitmap(e, path.Join(path.Dir(name), img))
		if err != nil {
			for _, p := range pages {
				p.Dispose()
			}
			return nil, err
		}
		pages = append(pages, b)
	}
	return LoadSpriteSheet(data, pages)
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, sheet *SpriteSheet) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("frames: %w: %v", ErrInvalidData, err)
	}
	for name, f := range frames {
		sheet.regions[name] = frameToRegion(f, page)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, sheet *SpriteSheet) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("textures: %w: %v", ErrInvalidData, err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			sheet.regions[name] = frameToRegion(f, i)
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page int) Region {
	return Region{
		Page:     page,
		Rect:     Rect{f.Frame.X, f.Frame.Y, f.Frame.W, f.Frame.H},
		Offset:   Point{f.SpriteSourceSize.X, f.SpriteSourceSize.Y},
		Original: Point{f.SourceSize.W, f.SourceSize.H},
		Rotated:  f.Rotated,
	}
}
