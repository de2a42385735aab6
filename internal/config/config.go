package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/words2video/internal/colors"
)

// Config is the validated root configuration for one video.
type Config struct {
	Video      VideoSpec      `yaml:"video" json:"video"`
	Background BackgroundSpec `yaml:"background" json:"background"`
	Texts      []TextSequence `yaml:"texts" json:"texts"`
	QR         *QRSpec        `yaml:"qr,omitempty" json:"qr,omitempty"`
}

type VideoSpec struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	FPS    int `yaml:"fps" json:"fps"`
}

type BackgroundSpec struct {
	Type             string  `yaml:"type" json:"type"` // "solid" or "paper"
	Color            string  `yaml:"color" json:"color"`
	TextureIntensity float64 `yaml:"texture_intensity" json:"texture_intensity"`
}

// Position places a layer on the canvas. X/Y are pointers because they are
// required only when Mode is not "center": absolute pixels or [0,1] fractions.
type Position struct {
	Mode string   `yaml:"mode" json:"mode"` // "center", "absolute", "relative"
	X    *float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y    *float64 `yaml:"y,omitempty" json:"y,omitempty"`
}

type Font struct {
	Family string `yaml:"family" json:"family"`
	Size   int    `yaml:"size" json:"size"`
	Color  string `yaml:"color" json:"color"`
}

type TypingEffect struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	CharsPerSecond float64 `yaml:"chars_per_second" json:"chars_per_second"`
}

type DropShadow struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	OffsetX    int    `yaml:"offset_x" json:"offset_x"`
	OffsetY    int    `yaml:"offset_y" json:"offset_y"`
	BlurRadius int    `yaml:"blur_radius" json:"blur_radius"`
	Color      string `yaml:"color" json:"color"`
}

// ScaleEffect scales text up from InitialScale during fade-in (and back down
// during fade-out when ApplyToFadeOut is set) for a depth illusion.
type ScaleEffect struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	InitialScale   float64 `yaml:"initial_scale" json:"initial_scale"`
	ApplyToFadeOut bool    `yaml:"apply_to_fade_out" json:"apply_to_fade_out"`
	Easing         string  `yaml:"easing" json:"easing"`
}

type Effects struct {
	Typing     TypingEffect `yaml:"typing" json:"typing"`
	DropShadow DropShadow   `yaml:"drop_shadow" json:"drop_shadow"`
	Scale      ScaleEffect  `yaml:"scale" json:"scale"`
}

// TextSequence is one animated text element. Its lifetime on screen is
// [StartTime, End()) and is split into fade-in, display and fade-out phases.
type TextSequence struct {
	Content         string   `yaml:"content" json:"content"`
	StartTime       float64  `yaml:"start_time" json:"start_time"`
	FadeInDuration  float64  `yaml:"fade_in_duration" json:"fade_in_duration"`
	DisplayDuration float64  `yaml:"display_duration" json:"display_duration"`
	FadeOutDuration float64  `yaml:"fade_out_duration" json:"fade_out_duration"`
	Orientation     string   `yaml:"orientation" json:"orientation"`
	Position        Position `yaml:"position" json:"position"`
	Font            Font     `yaml:"font" json:"font"`
	Effects         Effects  `yaml:"effects" json:"effects"`
	ZIndex          int      `yaml:"z_index" json:"z_index"`
}

// QRSpec is an optional QR code overlay shown for the whole video.
type QRSpec struct {
	Content  string   `yaml:"content" json:"content"`
	Size     int      `yaml:"size" json:"size"`
	Position Position `yaml:"position" json:"position"`
	ZIndex   int      `yaml:"z_index" json:"z_index"`
}

// End returns the absolute time at which the sequence becomes invisible.
func (s *TextSequence) End() float64 {
	return s.StartTime + s.FadeInDuration + s.DisplayDuration + s.FadeOutDuration
}

// Duration returns the total video duration: the latest sequence end time,
// or 0 when no sequences are configured.
func (c *Config) Duration() float64 {
	max := 0.0
	for i := range c.Texts {
		if end := c.Texts[i].End(); end > max {
			max = end
		}
	}
	return max
}

func defaultVideo() VideoSpec {
	return VideoSpec{Width: 1920, Height: 1080, FPS: 30}
}

func defaultBackground() BackgroundSpec {
	return BackgroundSpec{Type: "paper", Color: "#FFFFFF", TextureIntensity: 0.05}
}

func defaultTextSequence() TextSequence {
	return TextSequence{
		StartTime:       0,
		FadeInDuration:  1.0,
		DisplayDuration: 3.0,
		FadeOutDuration: 1.0,
		Orientation:     "horizontal",
		Position:        Position{Mode: "center"},
		Font:            Font{Family: "Arial", Size: 72, Color: "#000000"},
		Effects: Effects{
			Typing:     TypingEffect{Enabled: false, CharsPerSecond: 10},
			DropShadow: DropShadow{Enabled: true, OffsetX: 2, OffsetY: 2, BlurRadius: 3, Color: "#00000040"},
			Scale:      ScaleEffect{Enabled: false, InitialScale: 0.5, Easing: "ease_in_out"},
		},
	}
}

// Custom unmarshalers pre-load defaults so that an absent field and an
// explicit zero stay distinguishable (fade_in_duration: 0 is meaningful).

func (s *TextSequence) UnmarshalYAML(value *yaml.Node) error {
	type plain TextSequence
	out := plain(defaultTextSequence())
	if err := value.Decode(&out); err != nil {
		return err
	}
	*s = TextSequence(out)
	return nil
}

func (s *TextSequence) UnmarshalJSON(data []byte) error {
	type plain TextSequence
	out := plain(defaultTextSequence())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*s = TextSequence(out)
	return nil
}

func (b *BackgroundSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain BackgroundSpec
	out := plain(defaultBackground())
	if err := value.Decode(&out); err != nil {
		return err
	}
	*b = BackgroundSpec(out)
	return nil
}

func (b *BackgroundSpec) UnmarshalJSON(data []byte) error {
	type plain BackgroundSpec
	out := plain(defaultBackground())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*b = BackgroundSpec(out)
	return nil
}

// applyDefaults fills top-level sections that were absent entirely.
func (c *Config) applyDefaults() {
	if c.Video == (VideoSpec{}) {
		c.Video = defaultVideo()
	}
	if c.Background == (BackgroundSpec{}) {
		c.Background = defaultBackground()
	}
	if c.QR != nil {
		if c.QR.Size == 0 {
			c.QR.Size = 256
		}
		if c.QR.Position.Mode == "" {
			c.QR.Position.Mode = "center"
		}
	}
}

// Validate checks the whole configuration. It returns the first violation
// found, with enough context to locate the offending entry.
func (c *Config) Validate() error {
	if c.Video.Width <= 0 {
		return fmt.Errorf("video: width must be a positive integer, got %d", c.Video.Width)
	}
	if c.Video.Height <= 0 {
		return fmt.Errorf("video: height must be a positive integer, got %d", c.Video.Height)
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("video: fps must be a positive integer, got %d", c.Video.FPS)
	}

	if c.Background.Type != "solid" && c.Background.Type != "paper" {
		return fmt.Errorf("background: type must be \"solid\" or \"paper\", got %q", c.Background.Type)
	}
	if _, err := colors.ParseHex(c.Background.Color); err != nil {
		return fmt.Errorf("background: %v", err)
	}
	if c.Background.TextureIntensity < 0 || c.Background.TextureIntensity > 1 {
		return fmt.Errorf("background: texture_intensity must be in [0,1], got %g", c.Background.TextureIntensity)
	}

	for i := range c.Texts {
		if err := c.validateText(&c.Texts[i]); err != nil {
			return fmt.Errorf("texts[%d]: %v", i, err)
		}
	}

	if c.QR != nil {
		if c.QR.Content == "" {
			return fmt.Errorf("qr: content must not be empty")
		}
		if c.QR.Size <= 0 {
			return fmt.Errorf("qr: size must be positive, got %d", c.QR.Size)
		}
		if err := c.validatePosition(&c.QR.Position); err != nil {
			return fmt.Errorf("qr: %v", err)
		}
	}

	return nil
}

func (c *Config) validateText(s *TextSequence) error {
	if s.Content == "" {
		return fmt.Errorf("content must not be empty")
	}
	if s.StartTime < 0 {
		return fmt.Errorf("start_time must be non-negative, got %g", s.StartTime)
	}
	if s.FadeInDuration < 0 || s.DisplayDuration < 0 || s.FadeOutDuration < 0 {
		return fmt.Errorf("durations must be non-negative")
	}
	if s.Orientation != "horizontal" && s.Orientation != "vertical" {
		return fmt.Errorf("orientation must be \"horizontal\" or \"vertical\", got %q", s.Orientation)
	}
	if err := c.validatePosition(&s.Position); err != nil {
		return err
	}
	if s.Font.Size <= 0 {
		return fmt.Errorf("font: size must be positive, got %d", s.Font.Size)
	}
	if _, err := colors.ParseHex(s.Font.Color); err != nil {
		return fmt.Errorf("font: %v", err)
	}
	if s.Effects.Typing.Enabled && s.Effects.Typing.CharsPerSecond <= 0 {
		return fmt.Errorf("typing: chars_per_second must be positive, got %g", s.Effects.Typing.CharsPerSecond)
	}
	if s.Effects.DropShadow.Enabled {
		if s.Effects.DropShadow.BlurRadius < 0 {
			return fmt.Errorf("drop_shadow: blur_radius must be non-negative, got %d", s.Effects.DropShadow.BlurRadius)
		}
		if _, err := colors.ParseHex(s.Effects.DropShadow.Color); err != nil {
			return fmt.Errorf("drop_shadow: %v", err)
		}
	}
	if s.Effects.Scale.Enabled {
		if s.Effects.Scale.InitialScale <= 0 || s.Effects.Scale.InitialScale > 1 {
			return fmt.Errorf("scale: initial_scale must be in (0,1], got %g", s.Effects.Scale.InitialScale)
		}
		switch s.Effects.Scale.Easing {
		case "linear", "ease_in", "ease_out", "ease_in_out":
		default:
			return fmt.Errorf("scale: unknown easing %q", s.Effects.Scale.Easing)
		}
	}
	return nil
}

func (c *Config) validatePosition(p *Position) error {
	switch p.Mode {
	case "center":
		return nil
	case "absolute":
		if p.X == nil || p.Y == nil {
			return fmt.Errorf("position: absolute mode requires x and y")
		}
		if *p.X < 0 || *p.Y < 0 {
			return fmt.Errorf("position: absolute coordinates must be non-negative")
		}
		if *p.X > float64(c.Video.Width) || *p.Y > float64(c.Video.Height) {
			return fmt.Errorf("position: absolute coordinates (%g, %g) outside %dx%d canvas",
				*p.X, *p.Y, c.Video.Width, c.Video.Height)
		}
		return nil
	case "relative":
		if p.X == nil || p.Y == nil {
			return fmt.Errorf("position: relative mode requires x and y")
		}
		if *p.X < 0 || *p.X > 1 || *p.Y < 0 || *p.Y > 1 {
			return fmt.Errorf("position: relative coordinates must be in [0,1]")
		}
		return nil
	default:
		return fmt.Errorf("position: unknown mode %q", p.Mode)
	}
}
