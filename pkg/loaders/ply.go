package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidPLY is returned for data that is not a readable PLY mesh
var ErrInvalidPLY = errors.New("invalid PLY")

const (
	maxPLYElements     = 1 << 26 // Per element declared in the header
	maxPLYFaceVertices = 256
)

// plyTypes maps every scalar type name to its canonical name
var plyTypes = map[string]string{
	"char": "int8", "int8": "int8",
	"uchar": "uint8", "uint8": "uint8",
	"short": "int16", "int16": "int16",
	"ushort": "uint16", "uint16": "uint16",
	"int": "int32", "int32": "int32",
	"uint": "uint32", "uint32": "uint32",
	"float": "float32", "float32": "float32",
	"double": "float64", "float64": "float64",
}

var plyTypeSizes = map[string]int{
	"int8": 1, "uint8": 1,
	"int16": 2, "uint16": 2,
	"int32": 4, "uint32": 4, "float32": 4,
	"float64": 8,
}

// PLYData contains the vertex positions and triangulated faces of a PLY file
type PLYData struct {
	Vertices []core.Vec3
	Faces    []int // Triangle indices (3 per triangle)
}

// plyProperty is a scalar or list property of an element. For a list,
// countType is the type of the length prefix and valueType the type of
// each entry.
type plyProperty struct {
	name      string
	valueType string
	countType string
	isList    bool
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

type plyHeader struct {
	format   string
	elements []*plyElement
}

// LoadPLY loads a PLY file and returns its vertices and triangles
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := DecodePLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// DecodePLY reads an ascii, binary_little_endian or binary_big_endian PLY
// stream. Polygons are fan-triangulated and elements other than vertex and
// face are skipped.
func DecodePLY(r io.Reader) (*PLYData, error) {
	br := bufio.NewReader(r)
	header, err := readPLYHeader(br)
	if err != nil {
		return nil, err
	}

	var values plyValueReader
	switch header.format {
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		values = &plyASCIIReader{scanner: scanner}
	case "binary_little_endian":
		values = &plyBinaryReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{r: br, order: binary.BigEndian}
	}

	data := &PLYData{}
	for _, element := range header.elements {
		if err := data.readElement(element, values); err != nil {
			return nil, err
		}
	}

	for i, index := range data.Faces {
		if index < 0 || index >= len(data.Vertices) {
			return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidPLY, i/3, index, len(data.Vertices))
		}
	}
	return data, nil
}

func readPLYHeader(br *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{}
	var current *plyElement

	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: header has no end_header", ErrInvalidPLY)
			}
			return nil, err
		}
		fields := strings.Fields(line)

		if lineNo == 1 {
			if len(fields) != 1 || fields[0] != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidPLY)
			}
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) != 3 || fields[2] != "1.0" {
				return nil, fmt.Errorf("%w: bad format line %q", ErrInvalidPLY, strings.TrimSpace(line))
			}
			switch fields[1] {
			case "ascii", "binary_little_endian", "binary_big_endian":
				header.format = fields[1]
			default:
				return nil, fmt.Errorf("%w: unsupported format %s", ErrInvalidPLY, fields[1])
			}
		case "comment", "obj_info":
		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrInvalidPLY, strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 || count > maxPLYElements {
				return nil, fmt.Errorf("%w: bad %s count %s", ErrInvalidPLY, fields[1], fields[2])
			}
			current = &plyElement{name: fields[1], count: count}
			header.elements = append(header.elements, current)
		case "property":
			if current == nil {
				return nil, fmt.Errorf("%w: property before any element", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(fields[1:])
			if err != nil {
				return nil, err
			}
			current.props = append(current.props, prop)
		case "end_header":
			if header.format == "" {
				return nil, fmt.Errorf("%w: missing format line", ErrInvalidPLY)
			}
			return header, nil
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrInvalidPLY, fields[0])
		}
	}
}

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) == 4 && parts[0] == "list" {
		count, ok1 := plyTypes[parts[1]]
		value, ok2 := plyTypes[parts[2]]
		if !ok1 || !ok2 {
			return plyProperty{}, fmt.Errorf("%w: unknown type in list %s", ErrInvalidPLY, parts[3])
		}
		return plyProperty{name: parts[3], valueType: value, countType: count, isList: true}, nil
	}
	if len(parts) == 2 {
		value, ok := plyTypes[parts[0]]
		if !ok {
			return plyProperty{}, fmt.Errorf("%w: unknown type %s for %s", ErrInvalidPLY, parts[0], parts[1])
		}
		return plyProperty{name: parts[1], valueType: value}, nil
	}
	return plyProperty{}, fmt.Errorf("%w: bad property %q", ErrInvalidPLY, strings.Join(parts, " "))
}

func (d *PLYData) readElement(element *plyElement, values plyValueReader) error {
	position := [3]int{-1, -1, -1}
	indices := -1
	for i, prop := range element.props {
		switch {
		case element.name == "vertex" && !prop.isList:
			switch prop.name {
			case "x":
				position[0] = i
			case "y":
				position[1] = i
			case "z":
				position[2] = i
			}
		case element.name == "face" && prop.isList && (prop.name == "vertex_indices" || prop.name == "vertex_index"):
			indices = i
		}
	}
	if element.name == "vertex" && (position[0] < 0 || position[1] < 0 || position[2] < 0) {
		return fmt.Errorf("%w: vertex element needs x, y and z", ErrInvalidPLY)
	}
	if element.name == "face" && indices < 0 {
		return fmt.Errorf("%w: face element needs vertex_indices", ErrInvalidPLY)
	}

	var scalars [3]float64
	var polygon []int
	for n := 0; n < element.count; n++ {
		for i, prop := range element.props {
			if !prop.isList {
				v, err := values.value(prop.valueType)
				if err != nil {
					return plyReadError(element, n, err)
				}
				for axis, index := range position {
					if index == i {
						scalars[axis] = v
					}
				}
				continue
			}

			count, err := values.value(prop.countType)
			if err != nil {
				return plyReadError(element, n, err)
			}
			if count < 0 || count > maxPLYFaceVertices || count != math.Trunc(count) {
				return fmt.Errorf("%w: %s %d has list length %v", ErrInvalidPLY, element.name, n, count)
			}
			polygon = polygon[:0]
			for k := 0; k < int(count); k++ {
				v, err := values.value(prop.valueType)
				if err != nil {
					return plyReadError(element, n, err)
				}
				polygon = append(polygon, int(v))
			}
			if i == indices {
				if len(polygon) < 3 {
					return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidPLY, n, len(polygon))
				}
				for k := 1; k+1 < len(polygon); k++ {
					d.Faces = append(d.Faces, polygon[0], polygon[k], polygon[k+1])
				}
			}
		}
		if element.name == "vertex" {
			d.Vertices = append(d.Vertices, core.NewVec3(scalars[0], scalars[1], scalars[2]))
		}
	}
	return nil
}

func plyReadError(element *plyElement, n int, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %s %d: %v", ErrInvalidPLY, element.name, n, err)
}

// plyValueReader reads one scalar of the given canonical type
type plyValueReader interface {
	value(valueType string) (float64, error)
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (a *plyASCIIReader) value(valueType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", valueType, a.scanner.Text())
	}
	return v, nil
}

type plyBinaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *plyBinaryReader) value(valueType string) (float64, error) {
	buf := b.buf[:plyTypeSizes[valueType]]
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return 0, err
	}

	switch valueType {
	case "int8":
		return float64(int8(buf[0])), nil
	case "uint8":
		return float64(buf[0]), nil
	case "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	default:
		return math.Float64frombits(b.order.Uint64(buf)), nil
	}
}
