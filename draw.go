package flatsurf

import (
	"math"

	"github.com/fogleman/gg"
)

// drawPadding is the pixel margin around the unfolded surface.
const drawPadding = 40

// Draw renders the triangulation into an image context by unfolding it face
// by face into the plane: a first face is placed at the origin and every
// further face is attached across the edge through which it was first
// reached. Identified edges therefore appear once per adjacent face, and the
// copies of a face of a surface with nontrivial holonomy may overlap; the
// picture is a debugging aid, not an embedding.
//
// Exact coordinates are rounded to float64 here and only here; nothing
// computed from the picture flows back into the library. Use
// [gg.Context.SavePNG] on the result to write it out.
func Draw[T Scalar[T]](surface *Triangulation[T], scale float64) *gg.Context {
	type corner struct{ x, y float64 }

	// pos holds the planar position of the source corner of every half edge
	// in the one face it belongs to.
	pos := map[HalfEdge]corner{}
	place := func(he HalfEdge, at corner) {
		for i := 0; i < 3; i++ {
			pos[he] = at
			v := surface.FromHalfEdge(he)
			at = corner{at.x + v.X.Float64(), at.y + v.Y.Float64()}
			he = surface.NextInFace(he)
		}
	}

	faces := surface.Faces()
	for _, f := range faces {
		if _, ok := pos[f.Representative()]; ok {
			continue
		}
		queue := []HalfEdge{f.Representative()}
		place(queue[0], corner{})
		for len(queue) > 0 {
			he := queue[0]
			queue = queue[1:]
			for i := 0; i < 3; i++ {
				if !surface.Boundary(-he) {
					if _, ok := pos[-he]; !ok {
						from := pos[he]
						v := surface.FromHalfEdge(he)
						place(-he, corner{from.x + v.X.Float64(), from.y + v.Y.Float64()})
						queue = append(queue, -he)
					}
				}
				he = surface.NextInFace(he)
			}
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}

	width := int(scale*(maxX-minX)) + drawPadding*2
	height := int(scale*(maxY-minY)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left.
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	c.SetLineWidth(2)
	for _, f := range faces {
		he := f.Representative()
		p0 := pos[he]
		p1 := pos[surface.NextInFace(he)]
		p2 := pos[surface.PreviousInFace(he)]
		c.MoveTo(p0.x, p0.y)
		c.LineTo(p1.x, p1.y)
		c.LineTo(p2.x, p2.y)
		c.ClosePath()
		c.SetRGBA(0.3, 0.2, 1, 0.5)
		c.FillPreserve()
		c.SetRGB(0, 1, 0)
		c.Stroke()
	}

	// Label every half edge at its midpoint, nudged toward the centroid of
	// its face so the two sides of an edge stay apart. Text is drawn in
	// device coordinates since the flipped context would mirror the glyphs.
	c.SetRGB(1, 1, 1)
	for _, f := range faces {
		he := f.Representative()
		p0 := pos[he]
		p1 := pos[surface.NextInFace(he)]
		p2 := pos[surface.PreviousInFace(he)]
		cx := (p0.x + p1.x + p2.x) / 3
		cy := (p0.y + p1.y + p2.y) / 3
		for i := 0; i < 3; i++ {
			from := pos[he]
			to := pos[surface.NextInFace(he)]
			mx := (from.x+to.x)/2 + (cx-(from.x+to.x)/2)*0.2
			my := (from.y+to.y)/2 + (cy-(from.y+to.y)/2)*0.2
			dx, dy := c.TransformPoint(mx, my)
			c.Push()
			c.Identity()
			c.DrawStringAnchored(he.String(), dx, dy, 0.5, 0.5)
			c.Pop()
			he = surface.NextInFace(he)
		}
	}

	return c
}
