package present

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/cutlass/sim"
)

var (
	defaultBackground = color.RGBA{24, 26, 32, 255}
	defaultColor      = color.RGBA{235, 235, 230, 255}
	markerColor       = color.RGBA{255, 200, 90, 255}
)

// DefaultMaterials maps material references to wireframe colors.
func DefaultMaterials() map[sim.MaterialRef]color.RGBA {
	return map[sim.MaterialRef]color.RGBA{
		"grid":  {70, 76, 90, 255},
		"red":   {255, 120, 120, 255},
		"green": {140, 230, 150, 255},
		"blue":  {130, 180, 255, 255},
	}
}

// Renderer draws interpolated snapshots as projected wireframes.
type Renderer struct {
	Meshes     map[sim.MeshRef]Mesh
	Materials  map[sim.MaterialRef]color.RGBA
	Background color.Color
	LineWidth  float32
	MarkerSize float32

	drawn int
}

func NewRenderer() *Renderer {
	return &Renderer{
		Meshes:     DefaultMeshes(),
		Materials:  DefaultMaterials(),
		Background: defaultBackground,
		LineWidth:  1,
		MarkerSize: 4,
	}
}

// Drawn reports how many entities the last Draw call put on screen.
func (r *Renderer) Drawn() int {
	return r.drawn
}

// Draw renders snapshot from the point of view of its player camera.
func (r *Renderer) Draw(screen *ebiten.Image, snapshot *sim.World) {
	screen.Fill(r.Background)
	r.drawn = 0
	if snapshot == nil {
		return
	}

	bounds := screen.Bounds()
	width, height := float32(bounds.Dx()), float32(bounds.Dy())
	viewProj := snapshot.Player.Camera.ViewProjection()

	for _, e := range snapshot.Entities() {
		mvp := viewProj.Mul4(e.Model())
		if r.drawEntity(screen, e, mvp, width, height) {
			r.drawn++
		}
	}
}

func (r *Renderer) drawEntity(screen *ebiten.Image, e *sim.Entity, mvp mgl32.Mat4, width, height float32) bool {
	mesh, ok := r.Meshes[e.Mesh]
	if !ok {
		mesh = r.Meshes[MeshCube]
	}
	clr, ok := r.Materials[e.Material]
	if !ok {
		clr = defaultColor
	}

	visible := false
	for _, edge := range mesh.Edges {
		a, okA := Project(mvp, mesh.Vertices[edge[0]], width, height)
		b, okB := Project(mvp, mesh.Vertices[edge[1]], width, height)
		if !okA || !okB {
			continue
		}
		vector.StrokeLine(screen, a.X(), a.Y(), b.X(), b.Y(), r.LineWidth, clr, true)
		visible = true
	}

	if e.Mesh == MeshWorldClip {
		return visible
	}
	if center, ok := Project(mvp, mgl32.Vec3{}, width, height); ok {
		half := r.MarkerSize / 2
		vector.DrawFilledRect(screen, center.X()-half, center.Y()-half, r.MarkerSize, r.MarkerSize, markerColor, false)
		visible = true
	}
	return visible
}

// Project maps a model space point through mvp to screen pixels. It
// reports false for points behind the camera.
func Project(mvp mgl32.Mat4, p mgl32.Vec3, width, height float32) (mgl32.Vec2, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 1e-6 {
		return mgl32.Vec2{}, false
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w
	return mgl32.Vec2{
		(ndcX + 1) * 0.5 * width,
		(1 - ndcY) * 0.5 * height,
	}, true
}
