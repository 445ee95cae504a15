package voxel

// FillBox sets every cell in the inclusive box [min, max] to value.
// Coordinates are clipped to the volume.
func (v *Volume) FillBox(min, max [3]int, value int) {
	for z := clampInt(min[2], 0, v.size.Z); z <= clampInt(max[2], -1, v.size.Z-1); z++ {
		for y := clampInt(min[1], 0, v.size.Y); y <= clampInt(max[1], -1, v.size.Y-1); y++ {
			for x := clampInt(min[0], 0, v.size.X); x <= clampInt(max[0], -1, v.size.X-1); x++ {
				v.cells[v.Index(x, y, z)] = value
			}
		}
	}
}

// FillSphere sets every cell whose centre lies inside the ellipsoid
// inscribed in the volume to value.
func (v *Volume) FillSphere(value int) {
	rx := float32(v.size.X) / 2
	ry := float32(v.size.Y) / 2
	rz := float32(v.size.Z) / 2
	if rx == 0 || ry == 0 || rz == 0 {
		return
	}

	for z := 0; z < v.size.Z; z++ {
		for y := 0; y < v.size.Y; y++ {
			for x := 0; x < v.size.X; x++ {
				c := v.CellCenter(x, y, z)
				d := (c.X*c.X)/(rx*rx) + (c.Y*c.Y)/(ry*ry) + (c.Z*c.Z)/(rz*rz)
				if d <= 1 {
					v.cells[v.Index(x, y, z)] = value
				}
			}
		}
	}
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
