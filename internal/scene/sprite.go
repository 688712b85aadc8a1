package scene

// Sprite draws a texture as an axis-aligned quad.
type Sprite struct {
	nodeBase
	Texture          *Texture
	AnchorX, AnchorY float64 // 0..1 inside the texture, 0,0 = top-left
	ScaleX, ScaleY   float64
}

func NewSprite(name string, tex *Texture) *Sprite {
	return &Sprite{nodeBase: newBase(name), Texture: tex, ScaleX: 1, ScaleY: 1}
}

func (s *Sprite) SetScale(k float64) {
	s.ScaleX, s.ScaleY = k, k
}

func (s *Sprite) SetAnchor(x, y float64) {
	s.AnchorX, s.AnchorY = x, y
}

// Width is the drawn width: texture width times horizontal scale.
func (s *Sprite) Width() float64 {
	w, _ := s.Texture.Size()
	return w * s.ScaleX
}

func (s *Sprite) Height() float64 {
	_, h := s.Texture.Size()
	return h * s.ScaleY
}

// SetSize scales the sprite so it is drawn at w x h. No-op without a texture.
func (s *Sprite) SetSize(w, h float64) {
	tw, th := s.Texture.Size()
	if tw <= 0 || th <= 0 {
		return
	}
	s.ScaleX, s.ScaleY = w/tw, h/th
}

// Destroy detaches the sprite and drops its texture reference.
func (s *Sprite) Destroy() {
	if s.destroyed {
		return
	}
	s.detach(s)
	s.Texture = nil
	s.destroyed = true
}
