package loaders

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// squarePLY is a unit square stored as a single quad with a comment and an
// extra element that the decoder skips
const squarePLY = `ply
format ascii 1.0
comment unit square
element vertex 4
property float x
property float y
property float z
property uchar red
element face 1
property list uchar int vertex_indices
element edge 1
property int vertex1
property int vertex2
end_header
0 0 0 255
1 0 0 255
1 1 0 255
0 1 0 255
4 0 1 2 3
0 1
`

// createBinaryPLY writes two triangles over four vertices, with a short
// per-face flag after the index list
func createBinaryPLY(t *testing.T, order binary.ByteOrder, format string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property double z\n")
	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar uint vertex_indices\n")
	buf.WriteString("property short flags\n")
	buf.WriteString("end_header\n")

	vertices := []struct {
		x, y float32
		z    float64
	}{
		{0, 0, 1}, {2, 0, 1}, {2, 2, 1}, {0, 2, 1},
	}
	for _, v := range vertices {
		binary.Write(&buf, order, v.x)
		binary.Write(&buf, order, v.y)
		binary.Write(&buf, order, v.z)
	}

	faces := []struct {
		count      uint8
		v1, v2, v3 uint32
		flags      int16
	}{
		{3, 0, 1, 2, -1},
		{3, 0, 2, 3, 7},
	}
	for _, f := range faces {
		binary.Write(&buf, order, f)
	}
	return buf.Bytes()
}

func TestDecodePLY_ASCII(t *testing.T) {
	data, err := DecodePLY(strings.NewReader(squarePLY))
	if err != nil {
		t.Fatalf("DecodePLY failed: %v", err)
	}

	if len(data.Vertices) != 4 {
		t.Fatalf("Expected 4 vertices, got %d", len(data.Vertices))
	}
	if data.Vertices[2] != core.NewVec3(1, 1, 0) {
		t.Errorf("Vertex 2 = %v, want (1,1,0)", data.Vertices[2])
	}

	// The quad is split into a fan around its first vertex
	expected := []int{0, 1, 2, 0, 2, 3}
	if len(data.Faces) != len(expected) {
		t.Fatalf("Faces = %v, want %v", data.Faces, expected)
	}
	for i := range expected {
		if data.Faces[i] != expected[i] {
			t.Errorf("Faces = %v, want %v", data.Faces, expected)
			break
		}
	}
}

func TestDecodePLY_Binary(t *testing.T) {
	tests := []struct {
		format string
		order  binary.ByteOrder
	}{
		{"binary_little_endian", binary.LittleEndian},
		{"binary_big_endian", binary.BigEndian},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := DecodePLY(bytes.NewReader(createBinaryPLY(t, tt.order, tt.format)))
			if err != nil {
				t.Fatalf("DecodePLY failed: %v", err)
			}

			if len(data.Vertices) != 4 || data.Vertices[1] != core.NewVec3(2, 0, 1) {
				t.Errorf("Vertices = %v", data.Vertices)
			}
			if len(data.Faces) != 6 || data.Faces[3] != 0 || data.Faces[5] != 3 {
				t.Errorf("Faces = %v, want [0 1 2 0 2 3]", data.Faces)
			}
		})
	}
}

func TestDecodePLY_Errors(t *testing.T) {
	header := "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n"
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad magic", "obj\nformat ascii 1.0\nend_header\n"},
		{"no end_header", "ply\nformat ascii 1.0\nelement vertex 0\n"},
		{"missing format", "ply\nelement vertex 0\nproperty float x\nend_header\n"},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"unknown type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty half x\nend_header\n"},
		{"property before element", "ply\nformat ascii 1.0\nproperty float x\nend_header\n"},
		{"huge count", "ply\nformat ascii 1.0\nelement vertex 99999999999\nend_header\n"},
		{"negative count", "ply\nformat ascii 1.0\nelement vertex -1\nend_header\n"},
		{"missing z", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n0 0\n"},
		{"truncated vertices", header + "end_header\n0 0 0\n1 0\n"},
		{"bad number", header + "end_header\n0 0 0\n1 0 0\n0 one 0\n"},
		{"index out of range", header + "element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 3\n"},
		{"degenerate face", header + "element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n"},
		{"long list", header + "element face 1\nproperty list int int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n100000 0 1 2\n"},
		{"truncated binary", "ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nend_header\n\x00\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePLY(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalidPLY) {
				t.Errorf("Expected ErrInvalidPLY, got %v", err)
			}
		})
	}
}

func TestLoadPLY(t *testing.T) {
	path := writeFile(t, t.TempDir(), "square.ply", squarePLY)

	data, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY failed: %v", err)
	}
	if len(data.Faces) != 6 {
		t.Errorf("Expected 2 triangles, got %d indices", len(data.Faces))
	}

	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLoadSceneFile_Mesh(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "square.ply", squarePLY)
	path := writeFile(t, dir, "mesh.txt", "BEGIN_CAMERA\nlocation 0 -5 0\ngaze 0 1 0\nEND_CAMERA\n"+
		"BEGIN_MESH\nMESH Square\nfile square.ply\ntranslation 0 0 2\nscale 2\ndiffuse 0.2 0.4 0.6\nEND_MESH\n")

	file, err := LoadSceneFile(path, nil)
	if err != nil {
		t.Fatalf("LoadSceneFile failed: %v", err)
	}

	if len(file.Scene.Shapes) != 1 {
		t.Fatalf("Expected 1 shape, got %d", len(file.Scene.Shapes))
	}
	mesh, ok := file.Scene.Shapes[0].(*geometry.TriangleMesh)
	if !ok {
		t.Fatalf("Expected *geometry.TriangleMesh, got %T", file.Scene.Shapes[0])
	}
	if mesh.GetTriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.GetTriangleCount())
	}

	bounds := mesh.BoundingBox()
	if bounds.Max.X < 1.99 || bounds.Max.X > 2.01 || bounds.Min.Z < 1.99 || bounds.Max.Z > 2.01 {
		t.Errorf("Mesh not placed by its transform: %+v", bounds)
	}

	files := file.Files()
	if len(files) != 2 || files[1] != filepath.Join(dir, "square.ply") {
		t.Errorf("Files() = %v, want the scene and the mesh", files)
	}
}

func TestLoadSceneFile_MeshErrors(t *testing.T) {
	camera := "BEGIN_CAMERA\nlocation 0 -5 0\ngaze 0 1 0\nEND_CAMERA\n"
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"missing file key", camera + "BEGIN_MESH\nscale 1\nEND_MESH\n", ErrSyntax},
		{"file key on sphere", camera + "BEGIN_SPHERE\nfile square.ply\nEND_SPHERE\n", ErrSyntax},
		{"bad mesh data", camera + "BEGIN_MESH\nfile broken.ply\nEND_MESH\n", ErrInvalidPLY},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "broken.ply", "ply\nformat ascii 1.0\nelement vertex 5\n")
			path := writeFile(t, dir, "scene.txt", tt.content)

			_, err := LoadSceneFile(path, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
