package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"

	"quark2d/geometry"
	"quark2d/hal"
	"quark2d/pose"
)

// Material is the per-shape uniform state.
type Material struct {
	Color  [3]float32
	Offset mgl32.Vec2 // local-frame offset applied after the pose transform
}

// Item pairs a drawable with its material.
type Item struct {
	Drawable geometry.Drawable
	Material Material
}

// Default materials.
var (
	Blue         = [3]float32{0, 0, 1}
	Red          = [3]float32{1, 0, 0}
	CircleOffset = mgl32.Vec2{0.8, 0}
)

// Renderer draws the registered items with one shared program.
type Renderer struct {
	gfx   hal.Graphics
	res   *Resources
	items []Item
}

// NewRenderer returns a renderer with no items.
func NewRenderer(gfx hal.Graphics, res *Resources) *Renderer {
	return &Renderer{gfx: gfx, res: res}
}

// NewDefaultRenderer registers the blue rectangle followed by the red
// circle offset to its right.
func NewDefaultRenderer(gfx hal.Graphics, res *Resources, shapes *geometry.Store) *Renderer {
	r := NewRenderer(gfx, res)
	r.Register(Item{Drawable: shapes.Rect, Material: Material{Color: Blue}})
	r.Register(Item{Drawable: shapes.Circle, Material: Material{Color: Red, Offset: CircleOffset}})
	return r
}

// Register appends an item. Items draw in registration order.
func (r *Renderer) Register(it Item) {
	r.items = append(r.items, it)
}

// Items returns the registered items.
func (r *Renderer) Items() []Item { return r.items }

// Draw submits every item using the pose snapshot p.
func (r *Renderer) Draw(p pose.Pose) {
	r.gfx.UseProgram(r.res.Program)
	m := Compose(p)
	for _, it := range r.items {
		r.gfx.SetUniformMat4(r.res.TransformLoc, Offset(m, it.Material.Offset))
		r.gfx.SetUniformVec3(r.res.ColorLoc, it.Material.Color)
		r.gfx.BindVertices(it.Drawable.Buffer)
		r.gfx.DrawArrays(it.Drawable.Primitive, 0, it.Drawable.Count)
	}
	r.gfx.BindVertices(0)
}
