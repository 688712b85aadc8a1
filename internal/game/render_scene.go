//go:build !android

package game

import "skyfx/internal/scene"

// DrawScene renders root's subtree in draw order. Graphics nodes are batched
// into one mesh until a sprite interrupts the run.
func (r *Renderer) DrawScene(root *scene.Container) {
	r.drawNode(root, placement{alpha: 1})
}

func (r *Renderer) drawNode(n scene.Node, parent placement) {
	switch v := n.(type) {
	case *scene.Container:
		if !v.Visible || v.Alpha <= 0 {
			return
		}
		at := parent.child(v.X, v.Y, v.Alpha)
		for _, ch := range v.DrawOrder() {
			r.drawNode(ch, at)
		}
	case *scene.Graphics:
		if !v.Visible || v.Alpha <= 0 {
			return
		}
		r.mesh = appendGraphics(r.mesh, v, parent.child(v.X, v.Y, v.Alpha))
		if len(r.mesh) > maxMeshFloats {
			r.flushMesh()
		}
	case *scene.Sprite:
		if !v.Visible || v.Alpha <= 0 || v.Texture == nil || v.Texture.Image == nil {
			return
		}
		if w, h := v.Texture.Size(); w <= 0 || h <= 0 {
			return
		}
		at := parent.child(v.X, v.Y, v.Alpha)
		r.flushMesh()
		x0, y0, x1, y1 := spriteRect(v, at)
		r.drawQuad(r.texture(v.Texture), x0, y0, x1, y1, at.alpha)
	}
}
