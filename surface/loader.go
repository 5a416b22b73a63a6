package surface

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akmonengine/navfunnel/geometry"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hjson/hjson-go/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// meshFile is the editable text description of a surface:
//
//	{
//	  # one [x, y, z] per vertex
//	  vertices: [[0, 0, 0], [1, 0, 0], [0, 0, 1]]
//	  triangles: [[0, 1, 2]]
//	}
type meshFile struct {
	Vertices  [][]float64 `json:"vertices"`
	Triangles [][]int     `json:"triangles"`
}

// snapshot is the binary form: adjacency is stored so loading skips the edge matching.
type snapshot struct {
	Vertices  [][3]float64 `msgpack:"v"`
	Triangles [][3]int     `msgpack:"t"`
	Offsets   []int        `msgpack:"o"`
	Counts    []int        `msgpack:"c"`
	Adjacency []int        `msgpack:"a"`
}

// LoadHJSON parses a text mesh description and builds the surface.
func LoadHJSON(r io.Reader) (*Surface, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read mesh: %w", err)
	}

	var mesh meshFile
	if err = hjson.Unmarshal(data, &mesh); err != nil {
		return nil, fmt.Errorf("parse mesh: %w", err)
	}

	vertices := make([]mgl64.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		if len(v) != 3 {
			return nil, fmt.Errorf("vertex %d has %d components: %w", i, len(v), ErrDegenerateInput)
		}
		vertices[i] = mgl64.Vec3{v[0], v[1], v[2]}
	}

	indices := make([]int, 0, len(mesh.Triangles)*3)
	for i, t := range mesh.Triangles {
		if len(t) != 3 {
			return nil, fmt.Errorf("triangle %d has %d indices: %w", i, len(t), ErrDegenerateInput)
		}
		indices = append(indices, t...)
	}

	return Build(vertices, indices)
}

// Encode writes the surface as a msgpack snapshot.
func (s *Surface) Encode(w io.Writer) error {
	snap := snapshot{
		Vertices:  make([][3]float64, len(s.Vertices)),
		Triangles: make([][3]int, len(s.Triangles)),
		Offsets:   s.AdjacencyOffsets,
		Counts:    s.AdjacencyCounts,
		Adjacency: s.Adjacency,
	}
	for i, v := range s.Vertices {
		snap.Vertices[i] = v
	}
	for i, t := range s.Triangles {
		snap.Triangles[i] = t.Indices()
	}

	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encode surface: %w", err)
	}
	return nil
}

// Decode reads a msgpack snapshot written by Encode and validates it.
func Decode(r io.Reader) (*Surface, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode surface: %w", err)
	}

	vertices := make([]mgl64.Vec3, len(snap.Vertices))
	for i, v := range snap.Vertices {
		vertices[i] = v
	}

	triangles := make([]geometry.Triangle, len(snap.Triangles))
	for i, t := range snap.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("triangle %d references vertex %d: %w", i, idx, ErrInvalidIndex)
			}
		}
		triangles[i] = geometry.NewTriangle(t[0], t[1], t[2], vertices[t[0]], vertices[t[1]], vertices[t[2]])
	}

	return New(vertices, triangles, snap.Offsets, snap.Counts, snap.Adjacency)
}

// LoadFile loads a surface, picking the format from the extension:
// .msgpack and .bin are snapshots, anything else is parsed as HJSON (JSON included).
func LoadFile(path string) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".bin":
		return Decode(f)
	default:
		return LoadHJSON(f)
	}
}

// SaveFile writes the msgpack snapshot of s to path.
func (s *Surface) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
