package imageload

import (
	"image"
	"image/color"
	"math"
	"slices"
	"testing"
)

func TestSliceSheet(t *testing.T) {
	cases := []struct {
		name                   string
		w, h, tw, th, m, space int
		want                   []image.Rectangle
	}{
		{
			name: "no_margin_no_spacing",
			w:    8, h: 16, tw: 4, th: 8,
			want: []image.Rectangle{
				image.Rect(0, 0, 4, 8), image.Rect(4, 0, 8, 8),
				image.Rect(0, 8, 4, 16), image.Rect(4, 8, 8, 16),
			},
		},
		{
			name: "no_margin_with_spacing",
			w:    9, h: 17, tw: 4, th: 8, space: 1,
			want: []image.Rectangle{
				image.Rect(0, 0, 4, 8), image.Rect(5, 0, 9, 8),
				image.Rect(0, 9, 4, 17), image.Rect(5, 9, 9, 17),
			},
		},
		{
			name: "margin_no_spacing",
			w:    10, h: 18, tw: 4, th: 8, m: 1,
			want: []image.Rectangle{
				image.Rect(1, 1, 5, 9), image.Rect(5, 1, 9, 9),
				image.Rect(1, 9, 5, 17), image.Rect(5, 9, 9, 17),
			},
		},
		{
			name: "margin_with_spacing",
			w:    11, h: 19, tw: 4, th: 8, m: 1, space: 1,
			want: []image.Rectangle{
				image.Rect(1, 1, 5, 9), image.Rect(6, 1, 10, 9),
				image.Rect(1, 10, 5, 18), image.Rect(6, 10, 10, 18),
			},
		},
		{
			name: "partial_tiles_dropped",
			w:    7, h: 9, tw: 4, th: 8,
			want: []image.Rectangle{image.Rect(0, 0, 4, 8)},
		},
		{
			name: "margin_overflow_dropped",
			w:    8, h: 9, tw: 4, th: 8, m: 1,
			want: []image.Rectangle{image.Rect(1, 1, 5, 9)},
		},
		{
			name: "zero_tile",
			w:    8, h: 8,
		},
		{
			name: "negative_spacing",
			w:    32, h: 32, tw: 16, th: 16, space: -16,
		},
		{
			name: "negative_margin",
			w:    32, h: 32, tw: 16, th: 16, m: -4,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SliceSheet(image.Pt(c.w, c.h), c.tw, c.th, c.m, c.space)
			if !slices.Equal(got, c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestSheetGrid(t *testing.T) {
	cases := []struct {
		name                   string
		w, h, tw, th, m, space int
		cols, rows             int
	}{
		{"exact", 32, 16, 16, 16, 0, 0, 2, 1},
		{"spacing", 33, 16, 16, 16, 0, 1, 2, 1},
		{"margin_too_large", 32, 32, 16, 16, 40, 0, 0, 0},
		{"tile_too_large", 8, 8, 16, 16, 0, 0, 0, 0},
		{"huge_sheet", 1000000, 1000000, 1, 1, 0, 0, 1000000, 1000000},
		{"wrapping_step", 32, 32, 16, 16, 0, math.MaxInt, 1, 1},
	}
	for _, c := range cases {
		cols, rows := SheetGrid(image.Pt(c.w, c.h), c.tw, c.th, c.m, c.space)
		if cols != c.cols || rows != c.rows {
			t.Errorf("%s: SheetGrid = %dx%d, want %dx%d", c.name, cols, rows, c.cols, c.rows)
		}
	}
}

func TestHeadless(t *testing.T) {
	key := &color.NRGBA{R: 255, B: 255, A: 255}
	sheet, err := Headless{}.Load(Request{Path: "tiles/a.png", Trans: key, Size: image.Pt(32, 16)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sheet.Size() != image.Pt(32, 16) {
		t.Fatalf("Size = %v", sheet.Size())
	}
	sub, ok := sheet.Sub(image.Rect(16, 0, 32, 16)).(Placeholder)
	if !ok {
		t.Fatalf("Sub returned %T", sheet.Sub(image.Rect(16, 0, 32, 16)))
	}
	if sub.Source != "tiles/a.png" || sub.Rect != image.Rect(16, 0, 32, 16) || sub.Trans != key {
		t.Fatalf("unexpected placeholder %+v", sub)
	}
	full := sheet.Handle().(Placeholder)
	if full.Rect != image.Rect(0, 0, 32, 16) {
		t.Fatalf("full rect = %v", full.Rect)
	}
}
