package explore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"ca-explorer/internal/atlas"
	"ca-explorer/internal/catalog"
	"ca-explorer/internal/judge"
	"ca-explorer/internal/periodicity"
)

// Config collects everything an Explorer needs besides its collaborators.
type Config struct {
	Sim    string
	Width  int
	Height int
	Seed   int64

	Rounds   int
	Reverse  bool
	Progress time.Duration

	CapturesDir string
	Store       string
	DBPath      string

	Judge       judge.Config
	Periodicity periodicity.Config
	Atlas       atlas.Config
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Sim:         "kernel",
		Width:       256,
		Height:      256,
		Seed:        1,
		Progress:    30 * time.Second,
		CapturesDir: "captures",
		Store:       "memory",
		DBPath:      "captures/catalog.db",
		Judge:       judge.DefaultConfig(),
		Periodicity: periodicity.DefaultConfig(),
		Atlas:       atlas.DefaultConfig(),
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "registered simulation backing the engine")
	fs.IntVar(&c.Width, "width", c.Width, "lattice width")
	fs.IntVar(&c.Height, "height", c.Height, "lattice height")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for lattice resets and atlas sampling")
	fs.IntVar(&c.Rounds, "rounds", c.Rounds, "stop after this many rounds (0 runs until interrupted)")
	fs.BoolVar(&c.Reverse, "reverse", c.Reverse, "walk the parameter space downwards")
	fs.DurationVar(&c.Progress, "progress", c.Progress, "interval between progress lines (0 disables)")
	fs.StringVar(&c.CapturesDir, "captures", c.CapturesDir, "directory for atlas GIFs")
	fs.StringVar(&c.Store, "store", c.Store, "capture catalog backend ("+strings.Join(catalog.StoreKinds, " or ")+")")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "sqlite catalog path")
	fs.IntVar(&c.Atlas.Scale, "scale", c.Atlas.Scale, "integer upscale of atlas frames")
}

// FromMap overrides fields from key/value pairs. Unlike the flag set it
// reaches the tuning knobs of every stage. Unknown keys and malformed values
// are errors.
func (c Config) FromMap(kv map[string]string) (Config, error) {
	for key, v := range kv {
		var err error
		switch key {
		case "sim":
			c.Sim = v
		case "w", "width":
			c.Width, err = strconv.Atoi(v)
		case "h", "height":
			c.Height, err = strconv.Atoi(v)
		case "seed":
			c.Seed, err = strconv.ParseInt(v, 10, 64)
		case "rounds":
			c.Rounds, err = strconv.Atoi(v)
		case "reverse":
			c.Reverse, err = strconv.ParseBool(v)
		case "progress":
			c.Progress, err = time.ParseDuration(v)
		case "captures":
			c.CapturesDir = v
		case "burst_length":
			c.Judge.BurstLength, err = strconv.Atoi(v)
		case "attempts":
			c.Judge.Attempts, err = strconv.Atoi(v)
		case "dead_threshold":
			c.Judge.DeadThreshold, err = strconv.ParseFloat(v, 64)
		case "generations":
			c.Periodicity.Generations, err = strconv.Atoi(v)
		case "stride":
			c.Periodicity.Stride, err = strconv.Atoi(v)
		case "slots":
			c.Atlas.Slots, err = strconv.Atoi(v)
		case "columns":
			c.Atlas.Columns, err = strconv.Atoi(v)
		case "clip_radius":
			c.Atlas.ClipRadius, err = strconv.Atoi(v)
		case "visibility":
			c.Atlas.VisibilityThreshold, err = strconv.ParseFloat(v, 64)
		case "max_attempts":
			c.Atlas.MaxAttempts, err = strconv.Atoi(v)
		case "frame_delay":
			c.Atlas.FrameDelay, err = time.ParseDuration(v)
		case "scale":
			c.Atlas.Scale, err = strconv.Atoi(v)
		default:
			return c, fmt.Errorf("unknown setting %q", key)
		}
		if err != nil {
			return c, fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return c, nil
}

// Validate rejects configurations no round could run with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid lattice size %dx%d", c.Width, c.Height)
	case c.Rounds < 0:
		return fmt.Errorf("invalid round count %d", c.Rounds)
	case c.Judge.BurstLength <= 0 || c.Judge.Attempts <= 0:
		return fmt.Errorf("invalid burst schedule %d x %d", c.Judge.Attempts, c.Judge.BurstLength)
	case c.Periodicity.Generations < 3:
		return fmt.Errorf("need at least 3 recorded generations, got %d", c.Periodicity.Generations)
	case c.Periodicity.Stride <= 0:
		return fmt.Errorf("invalid stride %d", c.Periodicity.Stride)
	case c.Atlas.Slots <= 0 || c.Atlas.Columns <= 0 || c.Atlas.ClipRadius < 0:
		return fmt.Errorf("invalid atlas geometry")
	case c.Atlas.Scale <= 0:
		return fmt.Errorf("invalid scale %d", c.Atlas.Scale)
	case c.CapturesDir == "":
		return fmt.Errorf("captures directory is required")
	}
	return nil
}
