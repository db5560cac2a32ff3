package interact

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// Config holds the pixel thresholds and rates the machine works with.
type Config struct {
	DragThreshold    float64 `yaml:"drag_threshold"`    // px before a press becomes a drag
	MarqueeThreshold float64 `yaml:"marquee_threshold"` // px before an empty press becomes a marquee
	RotateDeadZone   float64 `yaml:"rotate_dead_zone"`  // px before ctrl-drag starts rotating
	RotationRate     float64 `yaml:"rotation_rate"`     // degrees per px

	ArcFudge          float64 `yaml:"arc_fudge"`          // px between a new arc's center and its start
	ChainDisplacement float64 `yaml:"chain_displacement"` // px offset of a chained segment's free end

	SuggestionTolerance float64 `yaml:"suggestion_tolerance"` // off-axis ratio for horizontal/vertical
	MaxPointsInEntity   int     `yaml:"max_points_in_entity"`

	PanGuard float64 `yaml:"pan_guard"` // px a right press may move and still open the menu
	ZoomStep float64 `yaml:"zoom_step"` // scale factor per scroll notch
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		DragThreshold:       3,
		MarqueeThreshold:    10,
		RotateDeadZone:      25,
		RotationRate:        0.3,
		ArcFudge:            2,
		ChainDisplacement:   0.5,
		SuggestionTolerance: 0.02,
		MaxPointsInEntity:   sketch.MaxPointsInEntity,
		PanGuard:            5,
		ZoomStep:            1.2,
	}
}

// Validate fills unset fields with defaults and rejects inconsistent ones.
func (c *Config) Validate() error {
	def := DefaultConfig()
	fill := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&c.DragThreshold, def.DragThreshold)
	fill(&c.MarqueeThreshold, def.MarqueeThreshold)
	fill(&c.RotateDeadZone, def.RotateDeadZone)
	fill(&c.RotationRate, def.RotationRate)
	fill(&c.ArcFudge, def.ArcFudge)
	fill(&c.ChainDisplacement, def.ChainDisplacement)
	fill(&c.SuggestionTolerance, def.SuggestionTolerance)
	fill(&c.PanGuard, def.PanGuard)
	fill(&c.ZoomStep, def.ZoomStep)
	if c.MaxPointsInEntity <= 0 {
		c.MaxPointsInEntity = def.MaxPointsInEntity
	}

	if c.MarqueeThreshold < c.DragThreshold {
		return fmt.Errorf("interact: marquee threshold %.1f is below drag threshold %.1f", c.MarqueeThreshold, c.DragThreshold)
	}
	if c.MaxPointsInEntity < 5 || c.MaxPointsInEntity > sketch.MaxPointsInEntity {
		return fmt.Errorf("interact: max points in entity must be in [5, %d], got %d", sketch.MaxPointsInEntity, c.MaxPointsInEntity)
	}
	if c.ZoomStep <= 1 {
		return fmt.Errorf("interact: zoom step must be above 1, got %.2f", c.ZoomStep)
	}
	return nil
}

// LoadConfig reads a YAML config. A missing file yields the defaults; fields
// absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("interact: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("interact: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// YAML renders the config as a YAML document.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
