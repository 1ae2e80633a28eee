package gpu

// Scratch holds one device texture that is reused across draws and
// reallocated only when the requested size changes.
type Scratch struct {
	tex  Texture
	w, h int
}

// Get returns a w x h texture from dev. The previous texture is returned
// when its size matches; otherwise it is disposed and a new one created.
// The contents are undefined.
func (s *Scratch) Get(dev Device, w, h int) (Texture, error) {
	if s.tex != nil && s.w == w && s.h == h {
		return s.tex, nil
	}
	s.Release()
	tex, err := dev.NewTexture(w, h)
	if err != nil {
		return nil, err
	}
	s.tex, s.w, s.h = tex, w, h
	return tex, nil
}

// Release disposes the held texture, if any.
func (s *Scratch) Release() {
	if s.tex != nil {
		s.tex.Dispose()
		s.tex = nil
	}
}
