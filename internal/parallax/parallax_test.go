package parallax

import (
	"math"
	"testing"

	"skyfx/internal/scene"
)

func setup(t *testing.T) (*Engine, *scene.Ticker, *scene.Surface, *scene.Container) {
	t.Helper()
	clock := scene.NewTicker()
	surface := scene.NewSurface(1000, 500)
	group := scene.NewContainer("backgroundGroup")
	for _, name := range []string{"background", "field1", "field7", "mountain"} {
		group.AddChild(scene.NewContainer(name))
	}
	e, err := New(DefaultConfig(), clock, surface, group, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e, clock, surface, group
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(DefaultConfig(), nil, scene.NewSurface(1, 1), scene.NewContainer("g"), nil); err == nil {
		t.Fatal("expected error without clock")
	}
}

func TestPointerTargetsAreBounded(t *testing.T) {
	e, clock, surface, _ := setup(t)
	surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: 1000, Y: 250})
	for i := 0; i < 500; i++ {
		clock.Tick(0.016)
	}
	tests := []struct {
		layer string
		wantX float64
	}{
		{"field1", 1},   // 500 * 0.09 * 0.2 = 9, bounded to 1
		{"field7", -1},  // negative speed moves the other way
		{"mountain", 0}, // zero speed
		{"background", 0},
	}
	for _, tt := range tests {
		x, y, ok := e.Offset(tt.layer)
		if !ok {
			t.Fatalf("layer %s not tracked", tt.layer)
		}
		if math.Abs(x-tt.wantX) > 1e-6 || math.Abs(y) > 1e-6 {
			t.Errorf("%s offset = %v,%v, want %v,0", tt.layer, x, y, tt.wantX)
		}
	}
}

func TestSmoothingStep(t *testing.T) {
	e, clock, surface, group := setup(t)
	surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: 510, Y: 250})
	clock.Tick(0.016)
	// target = 10 * 0.09 * 0.2 = 0.18; one step covers 5% of it.
	want := 0.18 * 0.05
	x, _, _ := e.Offset("field1")
	if math.Abs(x-want) > 1e-12 {
		t.Fatalf("offset after one frame = %v, want %v", x, want)
	}
	field1 := group.ChildByName("field1").(*scene.Container)
	if field1.X != x {
		t.Fatalf("layer position %v not applied", field1.X)
	}
}

func TestScrollOffset(t *testing.T) {
	e, clock, surface, _ := setup(t)
	surface.Scroll(100)
	for i := 0; i < 1000; i++ {
		clock.Tick(0.016)
	}
	// -(100 * 0.09 * 0.1) = -0.9, inside the scroll bound.
	_, y, _ := e.Offset("field1")
	if math.Abs(y+0.9) > 1e-6 {
		t.Fatalf("scroll offset = %v, want -0.9", y)
	}
	surface.Scroll(10000)
	for i := 0; i < 1000; i++ {
		clock.Tick(0.016)
	}
	if _, y, _ = e.Offset("field1"); math.Abs(y+3) > 1e-6 {
		t.Fatalf("scroll offset = %v, want bound -3", y)
	}
}

func TestLateLayersPickedUp(t *testing.T) {
	e, _, surface, group := setup(t)
	group.AddChild(scene.NewContainer("field3"))
	surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: 0, Y: 0})
	if _, _, ok := e.Offset("field3"); !ok {
		t.Fatal("layer added after New not tracked")
	}
}

func TestDestroyResets(t *testing.T) {
	e, clock, surface, group := setup(t)
	surface.DispatchPointer(scene.PointerEvent{Kind: scene.PointerMove, X: 900, Y: 400})
	for i := 0; i < 50; i++ {
		clock.Tick(0.016)
	}
	e.Destroy()
	if clock.Len() != 0 || surface.ListenerCount() != 0 {
		t.Fatal("engine left registrations behind")
	}
	for _, n := range group.Children() {
		c := n.(*scene.Container)
		if c.X != 0 || c.Y != 0 {
			t.Fatalf("layer %s not reset", c.Name)
		}
	}
	e.Destroy()
}
