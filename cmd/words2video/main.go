package main

import (
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/words2video/internal/compose"
	"github.com/ivlev/words2video/internal/config"
	"github.com/ivlev/words2video/internal/engine"
	"github.com/ivlev/words2video/internal/timing"
	"github.com/ivlev/words2video/internal/video"
)

var (
	rootCmd = &cobra.Command{
		Use:   "words2video",
		Short: "Render animated text videos from a declarative config",
		Long: `words2video turns a YAML or JSON scene description into an encoded video:
text sequences fade in, hold and fade out over a paper-textured background,
with optional typing, drop shadow and scale effects.

Examples:
  # Render the configured scene to an mp4
  words2video render -c scene.yaml -o out.mp4

  # Dump a single frame at t=2.5s for layout tweaking
  words2video frame -c scene.yaml -t 2.5 -o preview.png

  # Check a config without rendering anything
  words2video validate -c scene.yaml`,
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render the full video",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			outputPath, _ := cmd.Flags().GetString("output")
			workers, _ := cmd.Flags().GetInt("workers")
			quality, _ := cmd.Flags().GetInt("quality")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			a := engine.NewAssembly(cfg, &video.FFmpegEncoder{Verbose: verbose})
			a.Workers = workers
			a.Quality = quality
			a.Verbose = verbose

			return a.Run(cmd.Context(), outputPath)
		},
	}

	frameCmd = &cobra.Command{
		Use:   "frame",
		Short: "Render a single frame to PNG",
		Long: `Render the composited frame at the given timestamp and write it as PNG.
Useful for checking layout and timing without a full encode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			outputPath, _ := cmd.Flags().GetString("output")
			at, _ := cmd.Flags().GetFloat64("time")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if at < 0 {
				return fmt.Errorf("time must be non-negative, got %.3f", at)
			}

			builder, err := compose.NewFrameBuilder(cfg)
			if err != nil {
				return err
			}
			frame := builder.BuildFrame(at)

			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := png.Encode(f, frame); err != nil {
				return err
			}
			log.Printf("[+++] Frame at %.3fs -> %s", at, outputPath)
			return nil
		},
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate a config and report the scene timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			duration := cfg.Duration()
			frames := timing.FrameCount(duration, cfg.Video.FPS)
			fmt.Printf("[*] Config OK: %dx%d @ %d FPS\n", cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS)
			fmt.Printf("[*] %d text sequence(s), duration %.2fs, %d frames\n", len(cfg.Texts), duration, frames)
			return nil
		},
	}
)

func init() {
	renderCmd.Flags().StringP("config", "c", "", "Scene config file (.yaml, .yml or .json)")
	renderCmd.Flags().StringP("output", "o", "output.mp4", "Output video path")
	renderCmd.Flags().Int("workers", 0, "Frame builder workers (0 = auto)")
	renderCmd.Flags().Int("quality", 23, "x264 CRF (lower is better)")
	renderCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	renderCmd.MarkFlagRequired("config")

	frameCmd.Flags().StringP("config", "c", "", "Scene config file (.yaml, .yml or .json)")
	frameCmd.Flags().StringP("output", "o", "frame.png", "Output PNG path")
	frameCmd.Flags().Float64P("time", "t", 0, "Timestamp in seconds")
	frameCmd.MarkFlagRequired("config")

	validateCmd.Flags().StringP("config", "c", "", "Scene config file (.yaml, .yml or .json)")
	validateCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(frameCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	log.SetFlags(log.LstdFlags)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
