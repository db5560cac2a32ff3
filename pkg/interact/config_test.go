package interact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drag_threshold: 4\nzoom_step: 1.5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.DragThreshold)
	assert.Equal(t, 1.5, cfg.ZoomStep)
	assert.Equal(t, DefaultConfig().MarqueeThreshold, cfg.MarqueeThreshold)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "drag_threshold: [1"},
		{"marquee below drag", "drag_threshold: 20\nmarquee_threshold: 10\n"},
		{"too many points", "max_points_in_entity: 40\n"},
		{"too few points", "max_points_in_entity: 3\n"},
		{"zoom step", "zoom_step: 0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sketch.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestValidateFillsZeros(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	data, err := DefaultConfig().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "drag_threshold: 3")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, DefaultConfig(), back)
}

func TestCommandNames(t *testing.T) {
	for _, c := range Commands() {
		got, err := ParseCommand(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	c, err := ParseCommand(" Line ")
	require.NoError(t, err)
	assert.Equal(t, CmdLineSegment, c)

	_, err = ParseCommand("fillet")
	assert.Error(t, err)
}

func TestParseContextCommand(t *testing.T) {
	for c, name := range contextNames {
		got, err := ParseContextCommand(name)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	c, err := ParseContextCommand("select-all")
	require.NoError(t, err)
	assert.Equal(t, ContextSelectAll, c)

	_, err = ParseContextCommand("explode")
	assert.Error(t, err)
}
