package scene

// Plane builds a width x height quad in the XY plane facing +Z, centred on
// the origin.
func Plane(width, height float32, mat *Material) *Mesh {
	hw, hh := width/2, height/2
	return &Mesh{
		Positions: [][3]float32{
			{-hw, -hh, 0},
			{hw, -hh, 0},
			{hw, hh, 0},
			{-hw, hh, 0},
		},
		Normals: [][3]float32{
			{0, 0, 1},
			{0, 0, 1},
			{0, 0, 1},
			{0, 0, 1},
		},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
		Material: mat,
	}
}

// boxFaces lists each face as a normal and four corner sign triples.
var boxFaces = [6]struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
}

// Box builds an axis-aligned box of the given size centred on the origin,
// with per-face normals.
func Box(width, height, depth float32, mat *Material) *Mesh {
	half := [3]float32{width / 2, height / 2, depth / 2}
	m := &Mesh{Material: mat}
	for _, f := range boxFaces {
		base := uint32(len(m.Positions))
		for _, c := range f.corners {
			m.Positions = append(m.Positions, [3]float32{c[0] * half[0], c[1] * half[1], c[2] * half[2]})
			m.Normals = append(m.Normals, f.normal)
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}
