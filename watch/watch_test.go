package watch

import (
	"testing"
	"time"
)

func TestRelevant(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"maps/level.tmx", true},
		{"tilesets/Terrain.TSX", true},
		{"templates/spawn.tx", true},
		{"img/sheet.png", true},
		{"img/photo.JPEG", true},
		{"notes.txt", false},
		{"level.tmx~", false},
		{"Makefile", false},
	}
	for _, c := range cases {
		if got := Relevant(c.path); got != c.want {
			t.Errorf("Relevant(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestDebouncer(t *testing.T) {
	d := newDebouncer(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	if !d.allow("a.tmx", t0) {
		t.Fatalf("first event dropped")
	}
	if d.allow("a.tmx", t0.Add(50*time.Millisecond)) {
		t.Fatalf("event inside window allowed")
	}
	if !d.allow("b.tsx", t0.Add(50*time.Millisecond)) {
		t.Fatalf("other file debounced")
	}
	if !d.allow("a.tmx", t0.Add(150*time.Millisecond)) {
		t.Fatalf("event after window dropped")
	}
}
