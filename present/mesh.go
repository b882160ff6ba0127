package present

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/sim"
)

// Mesh is a wireframe: a vertex list plus index pairs for its edges.
type Mesh struct {
	Vertices []mgl32.Vec3
	Edges    [][2]int
}

const (
	MeshCube      sim.MeshRef = "cube"
	MeshSquare    sim.MeshRef = "square"
	MeshTriangle  sim.MeshRef = "triangle"
	MeshWorldClip sim.MeshRef = "world-clip"
)

// WorldClipExtent is the half width of the ground grid.
const WorldClipExtent = 1024

const worldClipCells = 32

// DefaultMeshes returns the wireframes the renderer knows by name. Unknown
// mesh references fall back to the unit cube.
func DefaultMeshes() map[sim.MeshRef]Mesh {
	return map[sim.MeshRef]Mesh{
		MeshCube:      cube(),
		MeshSquare:    square(),
		MeshTriangle:  triangle(),
		MeshWorldClip: worldClip(WorldClipExtent, worldClipCells),
	}
}

func cube() Mesh {
	m := Mesh{}
	for i := 0; i < 8; i++ {
		x, y, z := float32(-0.5), float32(-0.5), float32(-0.5)
		if i&1 != 0 {
			x = 0.5
		}
		if i&2 != 0 {
			y = 0.5
		}
		if i&4 != 0 {
			z = 0.5
		}
		m.Vertices = append(m.Vertices, mgl32.Vec3{x, y, z})
	}
	// Vertices that differ in exactly one bit share an edge.
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				m.Edges = append(m.Edges, [2]int{i, i | bit})
			}
		}
	}
	return m
}

func square() Mesh {
	return Mesh{
		Vertices: []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0}},
		Edges:    [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	}
}

func triangle() Mesh {
	return Mesh{
		Vertices: []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0, 0.5, 0}},
		Edges:    [][2]int{{0, 1}, {1, 2}, {2, 0}},
	}
}

// worldClip builds a flat XZ grid spanning [-extent, extent] with cells
// lines in each direction.
func worldClip(extent float32, cells int) Mesh {
	m := Mesh{}
	step := 2 * extent / float32(cells)
	for i := 0; i <= cells; i++ {
		d := -extent + float32(i)*step
		n := len(m.Vertices)
		m.Vertices = append(m.Vertices,
			mgl32.Vec3{d, 0, -extent}, mgl32.Vec3{d, 0, extent},
			mgl32.Vec3{-extent, 0, d}, mgl32.Vec3{extent, 0, d},
		)
		m.Edges = append(m.Edges, [2]int{n, n + 1}, [2]int{n + 2, n + 3})
	}
	return m
}
