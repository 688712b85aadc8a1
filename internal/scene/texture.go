package scene

import "image"

// Texture is an opaque drawable image. The renderer keys GPU uploads on the
// pointer, so a Texture must not be copied once handed out.
type Texture struct {
	Name  string
	Image *image.NRGBA
}

func NewTexture(name string, img *image.NRGBA) *Texture {
	return &Texture{Name: name, Image: img}
}

// Size returns the pixel size, or 0,0 for a texture without an image.
func (t *Texture) Size() (w, h float64) {
	if t == nil || t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// TextureProvider resolves named textures. Both lookups may come back
// empty until assets finish loading; callers are expected to retry.
type TextureProvider interface {
	Texture(name string) *Texture
	SpritesheetFrames(name string) []*Texture
}

// Atlas is an in-memory TextureProvider filled by the asset loader.
type Atlas struct {
	textures map[string]*Texture
	sheets   map[string][]*Texture
}

func NewAtlas() *Atlas {
	return &Atlas{
		textures: make(map[string]*Texture),
		sheets:   make(map[string][]*Texture),
	}
}

func (a *Atlas) Put(name string, t *Texture) {
	a.textures[name] = t
}

func (a *Atlas) PutSpritesheet(name string, frames []*Texture) {
	cp := make([]*Texture, len(frames))
	copy(cp, frames)
	a.sheets[name] = cp
}

func (a *Atlas) Texture(name string) *Texture {
	return a.textures[name]
}

// SpritesheetFrames returns the frames in insertion order.
func (a *Atlas) SpritesheetFrames(name string) []*Texture {
	return a.sheets[name]
}
