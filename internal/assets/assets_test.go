package assets

import (
	"bytes"
	"context"
	"testing"
	"time"

	"skyfx/internal/cursor"
	"skyfx/internal/scene"
	"skyfx/internal/theme"
)

func TestBuildIsDeterministic(t *testing.T) {
	a := Build(Options{Seed: 7})
	b := Build(Options{Seed: 7})
	fa := a.Sheets["clouds_spritesheet"]
	fb := b.Sheets["clouds_spritesheet"]
	if len(fa) != len(fb) || len(fa) == 0 {
		t.Fatalf("frame counts %d vs %d", len(fa), len(fb))
	}
	for i := range fa {
		if !bytes.Equal(fa[i].Image.Pix, fb[i].Image.Pix) {
			t.Fatalf("frame %d differs between equal seeds", i)
		}
	}
	name := LayerTexture(LayerMountain, theme.Light)
	if !bytes.Equal(a.Textures[name].Image.Pix, b.Textures[name].Image.Pix) {
		t.Fatal("mountain differs between equal seeds")
	}
}

func TestBuildCloudSheet(t *testing.T) {
	b := Build(Options{Seed: 1, CloudSheet: "sky", CloudFrames: 4})
	frames := b.Sheets["sky"]
	if len(frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(frames))
	}
	for i, f := range frames {
		w, h := f.Size()
		if w != CloudWidth || h != CloudHeight {
			t.Fatalf("frame %d size %vx%v", i, w, h)
		}
		if coveredPixels(f) == 0 {
			t.Fatalf("frame %d is empty", i)
		}
		if a := f.Image.NRGBAAt(0, 0).A; a != 0 {
			t.Fatalf("frame %d corner alpha = %d, want 0", i, a)
		}
	}
}

func TestBuildLayersForBothThemes(t *testing.T) {
	b := Build(Options{Seed: 3})
	layers := append([]string{LayerBackground, LayerMountain}, FieldLayers...)
	for _, th := range []theme.Theme{theme.Light, theme.Dark} {
		for _, l := range layers {
			tex := b.Textures[LayerTexture(l, th)]
			if tex == nil {
				t.Fatalf("missing %s/%s", th, l)
			}
			w, h := tex.Size()
			if w != 2*h {
				t.Fatalf("%s/%s is %vx%v, want 2:1", th, l, w, h)
			}
		}
	}
	if b.Textures[LayerTexture(LayerMoon, theme.Dark)] == nil {
		t.Fatal("dark theme has no moon")
	}
	if b.Textures[LayerTexture(LayerMoon, theme.Light)] != nil {
		t.Fatal("light theme should have no moon")
	}
}

func TestSkyIsOpaqueAndFieldsAreNot(t *testing.T) {
	b := Build(Options{Seed: 3})
	sky := b.Textures[LayerTexture(LayerBackground, theme.Dark)]
	if got, want := opaquePixels(sky), LayerWidth*LayerHeight; got != want {
		t.Fatalf("sky opaque pixels = %d, want %d", got, want)
	}
	field := b.Textures[LayerTexture("field7", theme.Light)]
	if a := field.Image.NRGBAAt(LayerWidth/2, 0).A; a != 0 {
		t.Fatalf("field top alpha = %d, want transparent", a)
	}
	if a := field.Image.NRGBAAt(LayerWidth/2, LayerHeight-1).A; a != 255 {
		t.Fatalf("field bottom alpha = %d, want opaque", a)
	}
}

func TestGlyphs(t *testing.T) {
	b := Build(Options{})
	for _, name := range []string{cursor.TextureLight, cursor.TextureDark} {
		g := b.Textures[name]
		if g == nil {
			t.Fatalf("missing glyph %q", name)
		}
		if a := g.Image.NRGBAAt(GlyphSize-1, 0).A; a != 0 {
			t.Fatalf("%s: top-right corner alpha = %d, want 0", name, a)
		}
		if a := g.Image.NRGBAAt(4, 10).A; a != 255 {
			t.Fatalf("%s: shaft alpha = %d, want 255", name, a)
		}
	}
	light := b.Textures[cursor.TextureLight].Image
	if light.NRGBAAt(4, 10) == light.NRGBAAt(1, 10) {
		t.Fatal("glyph has no outline")
	}
}

func TestPublish(t *testing.T) {
	b := Build(Options{Seed: 9})
	a := scene.NewAtlas()
	b.Publish(a)
	if a.Texture(cursor.TextureDark) == nil {
		t.Fatal("dark glyph not published")
	}
	if len(a.SpritesheetFrames("clouds_spritesheet")) != 6 {
		t.Fatal("cloud sheet not published")
	}
}

func TestLoad(t *testing.T) {
	ch := Load(context.Background(), Options{Seed: 2})
	select {
	case b, ok := <-ch:
		if !ok || b == nil {
			t.Fatal("no bundle delivered")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("bundle not delivered")
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := Load(ctx, Options{Seed: 2})
	select {
	case <-ch:
	case <-time.After(10 * time.Second):
		t.Fatal("channel neither delivered nor closed")
	}
}

func TestBlendOverTransparent(t *testing.T) {
	c := newCanvas(1, 1)
	c.blend(0, 0, scene.Hex(0xFF0000), 0.5)
	px := c.img.NRGBAAt(0, 0)
	if px.R != 255 || px.A != 128 {
		t.Fatalf("pixel = %+v, want full red at half alpha", px)
	}
	c.blend(0, 0, scene.Hex(0x0000FF), 1)
	if px = c.img.NRGBAAt(0, 0); px.B != 255 || px.R != 0 || px.A != 255 {
		t.Fatalf("pixel = %+v, want opaque blue", px)
	}
}

func coveredPixels(t *scene.Texture) int {
	n := 0
	for i := 3; i < len(t.Image.Pix); i += 4 {
		if t.Image.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func opaquePixels(t *scene.Texture) int {
	n := 0
	for i := 3; i < len(t.Image.Pix); i += 4 {
		if t.Image.Pix[i] == 255 {
			n++
		}
	}
	return n
}
