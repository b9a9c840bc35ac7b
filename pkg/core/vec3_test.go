package core

import (
	"math"
	"testing"
)

func TestRotationFromEuler(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		rotation Vec3
		expected Vec3
	}{
		{
			name:     "No rotation",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, 0, 0),
			expected: NewVec3(1, 0, 0),
		},
		{
			name:     "90 degree rotation around Z axis",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, 0, math.Pi/2),
			expected: NewVec3(0, 1, 0),
		},
		{
			name:     "90 degree rotation around Y axis",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, math.Pi/2, 0),
			expected: NewVec3(0, 0, -1),
		},
		{
			name:     "90 degree rotation around X axis",
			vector:   NewVec3(0, 1, 0),
			rotation: NewVec3(math.Pi/2, 0, 0),
			expected: NewVec3(0, 0, 1),
		},
		{
			name:     "180 degree rotation around Y axis",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, math.Pi, 0),
			expected: NewVec3(-1, 0, 0),
		},
		{
			name:     "Combined rotations",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, math.Pi/2, math.Pi/2), // 90° Y then 90° Z
			expected: NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RotationFromEuler(tt.rotation).MultiplyVec(tt.vector)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestMat3_RotationIsOrthonormal(t *testing.T) {
	rotation := RotationFromEuler(NewVec3(0.3, -1.2, 2.5))
	product := rotation.Multiply(rotation.Transpose())
	identity := Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(product[i][j]-identity[i][j]) > 1e-12 {
				t.Fatalf("R·Rᵀ is not the identity: %v", product)
			}
		}
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	result := Vec3{}.Normalize()
	if result != (Vec3{}) {
		t.Errorf("Expected zero vector, got %v", result)
	}
	if !result.IsFinite() {
		t.Error("Normalizing the zero vector must not produce NaN")
	}
}

func TestVec3_IsFinite(t *testing.T) {
	tests := []struct {
		name   string
		vector Vec3
		want   bool
	}{
		{"finite", NewVec3(1, -2, 3), true},
		{"nan", NewVec3(math.NaN(), 0, 0), false},
		{"inf", NewVec3(0, math.Inf(1), 0), false},
		{"negative inf", NewVec3(0, 0, math.Inf(-1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.IsFinite(); got != tt.want {
				t.Errorf("IsFinite(%v) = %t, want %t", tt.vector, got, tt.want)
			}
		})
	}
}

func TestVec3_GammaCorrectNegative(t *testing.T) {
	result := NewVec3(-0.5, 0.25, 1).GammaCorrect(2.0)
	if !result.IsFinite() {
		t.Fatalf("Expected finite result, got %v", result)
	}
	if result.X != 0 {
		t.Errorf("Expected negative component to clamp to 0, got %f", result.X)
	}
	if math.Abs(result.Y-0.5) > 1e-12 {
		t.Errorf("Expected 0.5, got %f", result.Y)
	}
}

func TestVec3_Lerp(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(2, 4, 6)

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); got != NewVec3(1, 2, 3) {
		t.Errorf("Lerp(0.5) = %v, want (1,2,3)", got)
	}
}
