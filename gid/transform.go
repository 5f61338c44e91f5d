package gid

// Orientation describes a flag combination as a mirror followed by a clockwise
// rotation. Mirrored means the tile is first mirrored across its vertical axis.
type Orientation struct {
	Degrees  int
	Mirrored bool
}

// orientations is indexed by Flags.Index. Tiled applies the diagonal flip
// (x/y swap) first, then the horizontal flip, then the vertical flip.
var orientations = [8]Orientation{
	{0, false},   // ---
	{270, true},  // --D
	{180, true},  // -V-
	{270, false}, // -VD
	{0, true},    // H--
	{90, false},  // H-D
	{180, false}, // HV-
	{90, true},   // HVD
}

// Orientation returns the rotation/mirror equivalent of f.
func (f Flags) Orientation() Orientation {
	return orientations[f.Index()]
}

// Affine maps a source pixel (x, y) to (A*x + B*y + Tx, C*x + D*y + Ty).
// The element layout matches ebiten.GeoM.
type Affine struct {
	A, B, Tx float64
	C, D, Ty float64
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.Tx, m.C*x + m.D*y + m.Ty
}

// Transform returns the affine that draws a w×h tile image with flags f into
// its destination box. The destination box is h×w when the diagonal flag is
// set and w×h otherwise; its top-left corner is the origin.
func (f Flags) Transform(w, h float64) Affine {
	m := Affine{A: 1, D: 1}
	if f.Diagonal {
		m = Affine{B: 1, C: 1}
		w, h = h, w
	}
	if f.Horizontal {
		m.A, m.B, m.Tx = -m.A, -m.B, w-m.Tx
	}
	if f.Vertical {
		m.C, m.D, m.Ty = -m.C, -m.D, h-m.Ty
	}
	return m
}
