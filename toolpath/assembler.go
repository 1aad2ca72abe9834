package toolpath

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/maiereni/drl2rml/drill"
	"github.com/maiereni/drl2rml/rmlprotocol"
)

// BlockSeparator ends every block in stepping mode.
const BlockSeparator = "\r\n"

// RoutingPath is a tool with the holes drilled by it, sorted by Y.
type RoutingPath struct {
	Tool  drill.Tool
	Holes []drill.DrillHole
}

// Assembler drives a complex generator over the holes of every tool.
type Assembler struct {
	// Generator produces one command block; nil means DrillSequence.
	Generator rmlprotocol.ComplexGenerator

	// Logger receives progress traces; nil means slog.Default().
	Logger *slog.Logger
}

// NewAssembler creates an assembler emitting drill sequences.
func NewAssembler() *Assembler {
	return &Assembler{Generator: rmlprotocol.DrillSequence{}}
}

// Generate assembles the command text of every tool declared in events.
func Generate(events []drill.Event, args RoutingArguments) (*Result, error) {
	return NewAssembler().Generate(events, args)
}

// GenerateFromReader tokenizes a drill file with the offsets of args and
// assembles it.
func (a *Assembler) GenerateFromReader(r io.Reader, args RoutingArguments) (*Result, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	tok := drill.NewTokenizer(args.OffsetX, args.OffsetY)
	tok.Logger = a.logger()
	events, err := tok.TokenizeReader(r)
	if err != nil {
		return nil, err
	}
	return a.Generate(events, args)
}

// Generate assembles the command text of every tool declared in events.
// A tool without holes maps to an empty text.
func (a *Assembler) Generate(events []drill.Event, args RoutingArguments) (*Result, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	log := a.logger()
	status := drill.NewStatus(events)
	log.Debug("initial definitions", "status", status.String())

	result := newResult()
	for _, tool := range status.Tools {
		path := CollectPath(tool, events)
		entry, err := a.generatePath(path, args)
		if err != nil {
			return nil, err
		}
		result.add(entry)
		log.Debug("generated toolpath", "tool", tool.ID, "holes", entry.Holes, "blocks", entry.Blocks)
	}
	return result, nil
}

func (a *Assembler) generatePath(path RoutingPath, args RoutingArguments) (*Entry, error) {
	entry := &Entry{Tool: path.Tool, Holes: len(path.Holes)}
	if len(path.Holes) == 0 {
		a.logger().Warn("tool has no holes", "tool", path.Tool.Label())
		return entry, nil
	}

	vertices := make([]rmlprotocol.VertexArgument, len(path.Holes))
	for i, h := range path.Holes {
		vertices[i] = vertex(h, args)
		entry.Extent.include(vertices[i].X, vertices[i].Y, vertices[i].Z)
	}

	var err error
	if args.Stepping > 0 {
		entry.Text, entry.Blocks, err = a.steps(vertices, entry.Extent, args)
	} else {
		entry.Text, err = a.full(vertices, args)
		entry.Blocks = 1
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// full emits every vertex in one block, one command per line.
func (a *Assembler) full(vertices []rmlprotocol.VertexArgument, args RoutingArguments) (string, error) {
	arg := complexArgument(args)
	arg.Reset = true
	arg.Points = vertices
	out, err := a.generator().Generate(arg)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, rmlprotocol.Terminator, "\n"), nil
}

// steps emits one block per Stepping vertices, optionally preceded by the
// extremes block.
func (a *Assembler) steps(vertices []rmlprotocol.VertexArgument, extent Extent, args RoutingArguments) (string, int, error) {
	gen := a.generator()
	var sb strings.Builder
	blocks := 0

	if args.WriteExtremes {
		arg := complexArgument(args)
		arg.Points = []rmlprotocol.VertexArgument{
			{X: 0, Y: 0, Z: extent.DeepestZ},
			{X: extent.MaxX, Y: extent.MaxY, Z: extent.DeepestZ},
		}
		header, err := gen.Generate(arg)
		if err != nil {
			return "", 0, err
		}
		sb.WriteString(header)
		sb.WriteString(BlockSeparator)
		blocks++
	}

	for start := 0; start < len(vertices); start += args.Stepping {
		end := min(start+args.Stepping, len(vertices))
		arg := complexArgument(args)
		arg.Points = vertices[start:end]
		out, err := gen.Generate(arg)
		if err != nil {
			return "", 0, err
		}
		sb.WriteString(out)
		sb.WriteString(BlockSeparator)
		blocks++
	}
	return sb.String(), blocks, nil
}

func (a *Assembler) generator() rmlprotocol.ComplexGenerator {
	if a.Generator != nil {
		return a.Generator
	}
	return rmlprotocol.DrillSequence{}
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// CollectPath gathers the holes drilled with tool. A hole belongs to the
// tool only when it follows the tool's selection with nothing but other
// holes in between. Holes are sorted by ascending Y; equal Y values are
// not kept in input order.
func CollectPath(tool drill.Tool, events []drill.Event) RoutingPath {
	path := RoutingPath{Tool: tool}
	take := false
	for _, e := range events {
		switch ev := e.(type) {
		case drill.DrillHole:
			if take {
				path.Holes = append(path.Holes, ev)
			}
		case drill.SelectTool:
			take = ev.ID == tool.ID
		default:
			take = false
		}
	}
	holes := path.Holes
	sort.SliceStable(holes, func(i, j int) bool {
		return !(holes[i].Y > holes[j].Y)
	})
	return path
}

func vertex(h drill.DrillHole, args RoutingArguments) rmlprotocol.VertexArgument {
	return rmlprotocol.VertexArgument{
		X: h.X / args.UnitConversion,
		Y: h.Y / args.UnitConversion,
		Z: args.Z1 / args.UnitConversion,
	}
}

func complexArgument(args RoutingArguments) rmlprotocol.ComplexArgument {
	arg := rmlprotocol.ComplexArgument{
		Z:       rmlprotocol.Coord(args.Z0 / args.UnitConversion),
		SpeedXY: rmlprotocol.Coord(SpeedXY),
	}
	if args.SpeedZ != nil {
		arg.SpeedZ = rmlprotocol.Coord(*args.SpeedZ)
	}
	return arg
}
