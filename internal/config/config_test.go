package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
video:
  width: 1280
  height: 720
  fps: 30
background:
  type: paper
  color: "#F5F0E0"
  texture_intensity: 0.1
texts:
  - content: "Hello"
    start_time: 0
    fade_in_duration: 1
    display_duration: 3
    fade_out_duration: 1
    z_index: 1
  - content: "World"
    start_time: 2
    fade_in_duration: 0
    display_duration: 2
    fade_out_duration: 0
    orientation: vertical
    position:
      mode: absolute
      x: 100
      y: 50
    effects:
      typing:
        enabled: true
        chars_per_second: 5
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeTemp(t, "sample.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Video.Width != 1280 || cfg.Video.Height != 720 || cfg.Video.FPS != 30 {
		t.Errorf("Unexpected video spec: %+v", cfg.Video)
	}
	if len(cfg.Texts) != 2 {
		t.Fatalf("Expected 2 texts, got %d", len(cfg.Texts))
	}

	// Explicit zero durations must survive defaulting
	second := cfg.Texts[1]
	if second.FadeInDuration != 0 || second.FadeOutDuration != 0 {
		t.Errorf("Explicit zero durations overwritten: fade_in=%g fade_out=%g",
			second.FadeInDuration, second.FadeOutDuration)
	}
	if second.Orientation != "vertical" {
		t.Errorf("Expected vertical orientation, got %s", second.Orientation)
	}
	if !second.Effects.Typing.Enabled || second.Effects.Typing.CharsPerSecond != 5 {
		t.Errorf("Typing effect not decoded: %+v", second.Effects.Typing)
	}

	// Defaults on the first text
	first := cfg.Texts[0]
	if first.Font.Family != "Arial" || first.Font.Size != 72 {
		t.Errorf("Font defaults not applied: %+v", first.Font)
	}
	if first.Position.Mode != "center" {
		t.Errorf("Expected center position default, got %s", first.Position.Mode)
	}
	if !first.Effects.DropShadow.Enabled {
		t.Errorf("Drop shadow should default to enabled")
	}
}

func TestLoadJSON(t *testing.T) {
	jsonCfg := `{
  "video": {"width": 640, "height": 480, "fps": 24},
  "background": {"type": "solid", "color": "#FFFFFF"},
  "texts": [{"content": "Hi", "fade_in_duration": 0.5}]
}`
	cfg, err := Load(writeTemp(t, "sample.json", jsonCfg))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Video.FPS != 24 {
		t.Errorf("Expected fps 24, got %d", cfg.Video.FPS)
	}
	if cfg.Texts[0].FadeInDuration != 0.5 {
		t.Errorf("Expected fade_in 0.5, got %g", cfg.Texts[0].FadeInDuration)
	}
	if cfg.Texts[0].DisplayDuration != 3.0 {
		t.Errorf("Expected default display 3.0, got %g", cfg.Texts[0].DisplayDuration)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load(writeTemp(t, "sample.toml", "x = 1")); err == nil {
		t.Errorf("Expected error for unsupported format")
	}
}

func TestDuration(t *testing.T) {
	cfg, err := Load(writeTemp(t, "sample.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Hello: 0+1+3+1 = 5; World: 2+0+2+0 = 4
	if d := cfg.Duration(); d != 5.0 {
		t.Errorf("Expected duration 5.0, got %g", d)
	}

	empty := &Config{}
	if d := empty.Duration(); d != 0 {
		t.Errorf("Expected 0 duration with no texts, got %g", d)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Video.Width = 0 }, "width"},
		{"zero fps", func(c *Config) { c.Video.FPS = 0 }, "fps"},
		{"bad background type", func(c *Config) { c.Background.Type = "textured" }, "type"},
		{"bad background color", func(c *Config) { c.Background.Color = "#XYZ" }, "hex color"},
		{"intensity out of range", func(c *Config) { c.Background.TextureIntensity = 1.5 }, "texture_intensity"},
		{"empty content", func(c *Config) { c.Texts[0].Content = "" }, "content"},
		{"negative start", func(c *Config) { c.Texts[0].StartTime = -1 }, "start_time"},
		{"bad orientation", func(c *Config) { c.Texts[0].Orientation = "diagonal" }, "orientation"},
		{"absolute without coords", func(c *Config) { c.Texts[0].Position = Position{Mode: "absolute"} }, "requires x and y"},
		{"absolute out of canvas", func(c *Config) {
			x, y := 5000.0, 10.0
			c.Texts[0].Position = Position{Mode: "absolute", X: &x, Y: &y}
		}, "outside"},
		{"relative out of range", func(c *Config) {
			x, y := 0.5, 1.5
			c.Texts[0].Position = Position{Mode: "relative", X: &x, Y: &y}
		}, "[0,1]"},
		{"zero cps typing", func(c *Config) {
			c.Texts[0].Effects.Typing = TypingEffect{Enabled: true, CharsPerSecond: 0}
		}, "chars_per_second"},
		{"bad easing", func(c *Config) {
			c.Texts[0].Effects.Scale = ScaleEffect{Enabled: true, InitialScale: 0.5, Easing: "bounce"}
		}, "easing"},
	}

	for _, tc := range cases {
		cfg := &Config{
			Video:      defaultVideo(),
			Background: defaultBackground(),
			Texts:      []TextSequence{defaultTextSequence()},
		}
		cfg.Texts[0].Content = "ok"
		tc.mutate(cfg)

		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestValidateQR(t *testing.T) {
	cfg := &Config{
		Video:      defaultVideo(),
		Background: defaultBackground(),
		Texts:      []TextSequence{defaultTextSequence()},
		QR:         &QRSpec{Content: "", Size: 256, Position: Position{Mode: "center"}},
	}
	cfg.Texts[0].Content = "ok"

	if err := cfg.Validate(); err == nil {
		t.Errorf("Expected error for empty qr content")
	}

	cfg.QR.Content = "https://example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
