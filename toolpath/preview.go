package toolpath

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/maiereni/drl2rml/drill"
)

// ErrNothingToPreview indicates a drill file without holes.
var ErrNothingToPreview = errors.New("no holes to preview")

// PreviewOptions shapes the board rendered by Preview.
type PreviewOptions struct {
	Thickness float64 // board thickness in mm
	Margin    float64 // board border around the outermost holes in mm
	Cells     int     // marching cubes resolution along the longest axis
}

// DefaultPreviewOptions is a 1.6mm board with a 2mm border.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{Thickness: 1.6, Margin: 2, Cells: 200}
}

// Board builds the solid of a board with every hole of events cut
// through it, sized by the tool that drills each hole.
func Board(events []drill.Event, opts PreviewOptions) (sdf.SDF3, error) {
	status := drill.NewStatus(events)
	var holes []sdf.SDF3
	for _, tool := range status.Tools {
		path := CollectPath(tool, events)
		if tool.Diameter <= 0 {
			continue
		}
		for _, h := range path.Holes {
			c, err := sdf.Cylinder3D(opts.Thickness*2, float64(tool.Diameter)/2, 0)
			if err != nil {
				return nil, fmt.Errorf("hole at %v,%v: %w", h.X, h.Y, err)
			}
			m := sdf.Translate3d(v3.Vec{X: float64(h.X), Y: float64(h.Y), Z: 0})
			holes = append(holes, sdf.Transform3D(c, m))
		}
	}
	if len(holes) == 0 {
		return nil, ErrNothingToPreview
	}

	width := float64(status.Width()) + 2*opts.Margin
	height := float64(status.Height()) + 2*opts.Margin
	board, err := sdf.Box3D(v3.Vec{X: width, Y: height, Z: opts.Thickness}, 0)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	center := v3.Vec{
		X: float64(status.MinX+status.MaxX) / 2,
		Y: float64(status.MinY+status.MaxY) / 2,
	}
	board = sdf.Transform3D(board, sdf.Translate3d(center))

	return sdf.Difference3D(board, sdf.Union3D(holes...)), nil
}

// Preview renders the board of events as an ASCII STL document and
// returns the number of triangles written.
func Preview(w io.Writer, events []drill.Event, opts PreviewOptions) (int, error) {
	if opts.Cells <= 0 {
		opts.Cells = DefaultPreviewOptions().Cells
	}
	if opts.Thickness <= 0 {
		opts.Thickness = DefaultPreviewOptions().Thickness
	}
	solid, err := Board(events, opts)
	if err != nil {
		return 0, err
	}
	triangles := render.ToTriangles(solid, render.NewMarchingCubesUniform(opts.Cells))

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "solid board")
	for _, tri := range triangles {
		n := tri.Normal()
		fmt.Fprintf(bw, "facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "  outer loop")
		for j := 0; j < 3; j++ {
			v := tri[j]
			fmt.Fprintf(bw, "    vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "  endloop")
		fmt.Fprintln(bw, "endfacet")
	}
	fmt.Fprintln(bw, "endsolid board")
	return len(triangles), bw.Flush()
}
