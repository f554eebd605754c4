package dsl

import "math"

// perm is the canonical Ken Perlin permutation table, doubled to avoid
// wrapping index checks during gradient lookups.
var perm = buildPerm()

func buildPerm() [512]byte {
	base := [256]byte{
		151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
		140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
		247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
		57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
		74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
		60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
		65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
		200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
		52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
		207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
		119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
		129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
		218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
		81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
		184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
		222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
	}
	var table [512]byte
	for i := range table {
		table[i] = base[i&255]
	}
	return table
}

func permIdx(v int32) int { return int(v & 255) }

func fade(t float64) float64 { return t * t * t * (t*(t*6.0-15.0) + 10.0) }

func lerp1(t, a, b float64) float64 { return a + t*(b-a) }

func grad1(hash byte, x float64) float64 {
	if hash&1 == 0 {
		return x
	}
	return -x
}

func grad2(hash byte, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}

func grad3(hash byte, x, y, z float64) float64 {
	h := hash & 15
	var u, v float64
	if h < 8 {
		u = x
	} else {
		u = y
	}
	if h < 4 {
		v = y
	} else if h == 12 || h == 14 {
		v = x
	} else {
		v = z
	}
	var su, sv float64
	if h&1 == 0 {
		su = u
	} else {
		su = -u
	}
	if h&2 == 0 {
		sv = v
	} else {
		sv = -v
	}
	return su + sv
}

// perlin1 computes 1D Perlin noise in [-1, 1].
func perlin1(x float64) float64 {
	xi := int32(math.Floor(x))
	xf := x - math.Floor(x)
	u := fade(xf)

	a := perm[permIdx(xi)]
	b := perm[permIdx(xi+1)]

	return lerp1(u, grad1(a, xf), grad1(b, xf-1.0))
}

// perlin2 computes 2D Perlin noise in [-1, 1].
func perlin2(x, y float64) float64 {
	xi := int32(math.Floor(x))
	yi := int32(math.Floor(y))
	xf := x - math.Floor(x)
	yf := y - math.Floor(y)
	u := fade(xf)
	v := fade(yf)

	aa := perm[permIdx(int32(perm[permIdx(xi)])+yi)]
	ab := perm[permIdx(int32(perm[permIdx(xi)])+yi+1)]
	ba := perm[permIdx(int32(perm[permIdx(xi+1)])+yi)]
	bb := perm[permIdx(int32(perm[permIdx(xi+1)])+yi+1)]

	return lerp1(v,
		lerp1(u, grad2(aa, xf, yf), grad2(ba, xf-1.0, yf)),
		lerp1(u, grad2(ab, xf, yf-1.0), grad2(bb, xf-1.0, yf-1.0)),
	)
}

// perlin3 computes 3D Perlin noise in [-1, 1].
func perlin3(x, y, z float64) float64 {
	xi := int32(math.Floor(x))
	yi := int32(math.Floor(y))
	zi := int32(math.Floor(z))
	xf := x - math.Floor(x)
	yf := y - math.Floor(y)
	zf := z - math.Floor(z)
	u := fade(xf)
	v := fade(yf)
	w := fade(zf)

	a := int32(perm[permIdx(xi)]) + yi
	aa := int32(perm[permIdx(a)]) + zi
	ab := int32(perm[permIdx(a+1)]) + zi
	b := int32(perm[permIdx(xi+1)]) + yi
	ba := int32(perm[permIdx(b)]) + zi
	bb := int32(perm[permIdx(b+1)]) + zi

	return lerp1(w,
		lerp1(v,
			lerp1(u, grad3(perm[permIdx(aa)], xf, yf, zf), grad3(perm[permIdx(ba)], xf-1.0, yf, zf)),
			lerp1(u, grad3(perm[permIdx(ab)], xf, yf-1.0, zf), grad3(perm[permIdx(bb)], xf-1.0, yf-1.0, zf)),
		),
		lerp1(v,
			lerp1(u, grad3(perm[permIdx(aa+1)], xf, yf, zf-1.0), grad3(perm[permIdx(ba+1)], xf-1.0, yf, zf-1.0)),
			lerp1(u, grad3(perm[permIdx(ab+1)], xf, yf-1.0, zf-1.0), grad3(perm[permIdx(bb+1)], xf-1.0, yf-1.0, zf-1.0)),
		),
	)
}

// fbm is fractal Brownian motion over 2D Perlin noise, lacunarity 2.0,
// gain 0.5, clamped to 1-10 octaves.
func fbm(x, y float64, octaves uint32) float64 {
	if octaves < 1 {
		octaves = 1
	}
	if octaves > 10 {
		octaves = 10
	}
	sum, amplitude, frequency, maxAmp := 0.0, 1.0, 1.0, 0.0
	for i := uint32(0); i < octaves; i++ {
		sum += amplitude * perlin2(x*frequency, y*frequency)
		maxAmp += amplitude
		amplitude *= 0.5
		frequency *= 2.0
	}
	return sum / maxAmp
}

// worley2 is 2D Worley (cellular) noise returning the distance to the
// nearest deterministic cell feature point, clamped to [0, 1].
func worley2(x, y float64) float64 {
	ix := int32(math.Floor(x))
	iy := int32(math.Floor(y))
	fx := x - math.Floor(x)
	fy := y - math.Floor(y)

	minDist := math.MaxFloat64
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			cellX := ix + dx
			cellY := iy + dy
			h := perm[permIdx(int32(perm[permIdx(cellX)])+cellY)]
			px := float64(dx) + float64(h)/255.0 - fx
			py := float64(dy) + float64(perm[permIdx(int32(h)+1)])/255.0 - fy
			dist := px*px + py*py
			if dist < minDist {
				minDist = dist
			}
		}
	}
	return math.Min(math.Sqrt(minDist), 1.0)
}

// hashF64 is a deterministic 2-argument GLSL-style sin hash mapping to
// [0, 1].
func hashF64(a, b float64) float64 {
	dot := a*12.9898 + b*78.233
	s := fractOf(math.Sin(dot) * 43758.5453)
	return math.Abs(s)
}

// hash3F64 is the 3-argument variant of hashF64.
func hash3F64(a, b, c float64) float64 {
	dot := a*12.9898 + b*78.233 + c*45.164
	s := fractOf(math.Sin(dot) * 43758.5453)
	return math.Abs(s)
}

func fractOf(v float64) float64 { return v - math.Trunc(v) }
