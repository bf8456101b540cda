package main

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-dissolve/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "dissolve",
	Short: "Dissolve an image into particles",
	Long:  `dissolve renders a still image breaking apart into particles on the GPU.`,
	// Usage is noise for runtime failures such as a missing GPU.
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run [image]",
	Short: "Open a window and dissolve an image",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.Image = args[0]
		}
		return runDissolve(cfg)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cfg.Dump(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dissolve v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dissolve.yaml)")

	addRunFlags(runCmd)
	addRunFlags(configCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// addRunFlags registers the flags that override configuration keys. Defaults are left at
// zero values; only flags set on the command line reach the config.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("image", "", "image file to dissolve (default is a generated test card)")
	f.Bool("watch", false, "restart with the reloaded image whenever the file changes")
	f.String("title", "", "window title")
	f.Int("width", 0, "window width in points")
	f.Int("height", 0, "window height in points")
	f.Bool("transparent", false, "request a transparent window framebuffer")
	f.Duration("duration", 0, "transition duration")
	f.Float64("cell-size", 0, "particle cell size in points")
	f.Int("max-particles", 0, "maximum number of particles")
	f.Float64("spread", 0, "particle travel multiplier")
	f.Uint64("seed", 0, "particle jitter seed")
	f.Int("workers", 0, "field sampling workers (0 uses every CPU)")
	f.Bool("loop", false, "restart the transition when it completes")
	f.Float64("frame-limit", 0, "frame rate cap (0 is uncapped)")
	f.String("present-mode", "", "vsync or uncapped")
	f.Bool("fallback", false, "force the software GPU adapter")
	f.Bool("headless", false, "render offscreen without a window")
	f.Float64("display-scale", 0, "override the display scale factor")
	f.Bool("profile", false, "log frame statistics")
	f.String("log-level", "", "debug, info, warn or error")
	f.String("log-format", "", "text or json")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
