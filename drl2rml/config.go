// =============================================================================
// config.go - Routing Profile and Flags
// =============================================================================
//
// A profile is a small TOML file holding the routing parameters of one
// machine and board material, so they need not be typed on every run:
//
//	z0 = 1.0              # safe height above the board, mm
//	z1 = -1.8             # drilling depth, mm
//	offset_x = 0.0
//	offset_y = 0.0
//	unit_conversion = 0.025
//	stepping = 20         # holes per block, 0 for one block
//	speed_z = 5.0         # optional plunge speed
//	extremes = true       # lead each stepped file with the bounding box
//	locale = "en"
//	out = "out"
//	journal = "~/.drl2rml/journal.db"
//
// drl2rml.toml in the working directory is read when present. Flags given
// on the command line win over the profile.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/maiereni/drl2rml/toolpath"
)

// defaultConfigName is looked up in the working directory.
const defaultConfigName = "drl2rml.toml"

// profile mirrors the TOML document. Pointer fields distinguish "absent"
// from an explicit zero or false.
type profile struct {
	Z0             float32  `toml:"z0"`
	Z1             float32  `toml:"z1"`
	OffsetX        float32  `toml:"offset_x"`
	OffsetY        float32  `toml:"offset_y"`
	UnitConversion *float32 `toml:"unit_conversion"`
	Stepping       int      `toml:"stepping"`
	SpeedZ         *float32 `toml:"speed_z"`
	Extremes       *bool    `toml:"extremes"`
	Legacy         bool     `toml:"legacy"`
	Locale         string   `toml:"locale"`
	Out            string   `toml:"out"`
	Journal        string   `toml:"journal"`
}

// GO CONCEPT: Decoding into Tagged Structs
// ----------------------------------------
// Struct tags like `toml:"offset_x"` tell the decoder which document key
// fills which field. BurntSushi/toml returns MetaData alongside the error;
// md.Undecoded() lists keys that matched no field, which catches typos
// such as "ofset_x" that would otherwise be ignored silently.
//
// Compare with Python: tomllib.load() returns a plain dict; mapping it to
// a dataclass (and spotting unknown keys) is left to the caller.

// loadProfile reads the profile at path. A missing file is only an error
// when the path was given explicitly.
func loadProfile(path string, explicit bool) (profile, error) {
	var p profile
	if path == "" {
		return p, nil
	}
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return profile{}, nil
		}
		return profile{}, fmt.Errorf("loading profile %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown profile key", "file", path, "key", key.String())
	}
	slog.Debug("profile loaded", "file", path)
	return p, nil
}

// routing returns the routing arguments described by the profile, with
// the defaults of the original tool for absent keys.
func (p profile) routing() toolpath.RoutingArguments {
	args := toolpath.DefaultRoutingArguments()
	args.Z0 = p.Z0
	args.Z1 = p.Z1
	args.OffsetX = p.OffsetX
	args.OffsetY = p.OffsetY
	args.Stepping = p.Stepping
	if p.UnitConversion != nil {
		args.UnitConversion = *p.UnitConversion
	}
	if p.SpeedZ != nil {
		speed := *p.SpeedZ
		args.SpeedZ = &speed
	}
	if p.Extremes != nil {
		args.WriteExtremes = *p.Extremes
	}
	return args
}

// journalPath resolves the journal location; "none" disables it.
func (p profile) journalPath() string {
	path := p.Journal
	if path == "" {
		if home := homeDir(); home != "" {
			path = filepath.Join(home, ".drl2rml", "journal.db")
		}
	}
	if path == "none" {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		path = filepath.Join(homeDir(), rest)
	}
	return path
}

// =============================================================================
// Routing Flags
// =============================================================================

// routingFlags are the per-invocation overrides shared by generate and
// watch.
type routingFlags struct {
	z0, z1           float32
	offsetX, offsetY float32
	unitConversion   float32
	speedZ           float32
	stepping         int
	extremes         bool
	legacy           bool
	out              string
	journal          string
}

func (f *routingFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float32Var(&f.z0, "z0", 0, "safe height above the board")
	fl.Float32Var(&f.z1, "z1", 0, "drilling depth")
	fl.Float32Var(&f.offsetX, "offset-x", 0, "added to every X coordinate")
	fl.Float32Var(&f.offsetY, "offset-y", 0, "added to every Y coordinate")
	fl.Float32Var(&f.unitConversion, "unit-conversion", 1, "coordinates are divided by this rate")
	fl.Float32Var(&f.speedZ, "speed-z", 0, "Z axis speed")
	fl.IntVar(&f.stepping, "stepping", 0, "holes per block, 0 for one block")
	fl.BoolVar(&f.extremes, "extremes", true, "lead stepped output with the bounding box")
	fl.BoolVar(&f.legacy, "legacy", false, "drop drill lines with unreadable numbers")
	fl.StringVarP(&f.out, "out", "o", "", "output directory (default: next to the drill file)")
	fl.StringVar(&f.journal, "journal", "", `run journal database, "none" to disable`)
}

// apply layers the flags given on the command line over the profile.
func (f *routingFlags) apply(cmd *cobra.Command, p profile) (toolpath.RoutingArguments, profile) {
	args := p.routing()
	fl := cmd.Flags()
	if fl.Changed("z0") {
		args.Z0 = f.z0
	}
	if fl.Changed("z1") {
		args.Z1 = f.z1
	}
	if fl.Changed("offset-x") {
		args.OffsetX = f.offsetX
	}
	if fl.Changed("offset-y") {
		args.OffsetY = f.offsetY
	}
	if fl.Changed("unit-conversion") {
		args.UnitConversion = f.unitConversion
	}
	if fl.Changed("speed-z") {
		speed := f.speedZ
		args.SpeedZ = &speed
	}
	if fl.Changed("stepping") {
		args.Stepping = f.stepping
	}
	if fl.Changed("extremes") {
		args.WriteExtremes = f.extremes
	}
	if fl.Changed("legacy") {
		p.Legacy = f.legacy
	}
	if fl.Changed("out") {
		p.Out = f.out
	}
	if fl.Changed("journal") {
		p.Journal = f.journal
	}
	return args, p
}

// homeDir returns the current user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
