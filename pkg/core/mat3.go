package core

import "math"

// Mat3 is a row-major 3x3 matrix
type Mat3 [3][3]float64

// RotationFromEuler builds an orthonormal rotation matrix from Euler angles in
// radians. Rotations are applied about X first, then Y, then Z (R = Rz·Ry·Rx).
func RotationFromEuler(euler Vec3) Mat3 {
	sx, cx := math.Sincos(euler.X)
	sy, cy := math.Sincos(euler.Y)
	sz, cz := math.Sincos(euler.Z)

	rx := Mat3{
		{1, 0, 0},
		{0, cx, -sx},
		{0, sx, cx},
	}
	ry := Mat3{
		{cy, 0, sy},
		{0, 1, 0},
		{-sy, 0, cy},
	}
	rz := Mat3{
		{cz, -sz, 0},
		{sz, cz, 0},
		{0, 0, 1},
	}
	return rz.Multiply(ry).Multiply(rx)
}

// Multiply returns the matrix product m·other
func (m Mat3) Multiply(other Mat3) Mat3 {
	var result Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return result
}

// MultiplyVec transforms a vector by the matrix
func (m Mat3) MultiplyVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transposed matrix. For a rotation this is its inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}
