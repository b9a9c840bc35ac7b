package main

import (
	"fmt"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/spf13/cobra"
)

var logger = log.New("raytracer")

func newRootCmd() *cobra.Command {
	var verbose, debug bool
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "raytracer",
		Short: "A tile-parallel Whitted ray tracer",
		Long: `raytracer renders scenes of spheres, boxes, planes and triangle meshes
with Blinn-Phong shading, shadows, mirror and glossy reflection and refraction.
Scenes are either builtin or read from scene files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case cmd.Flags().Changed("log-level"):
				level, ok := log.ParseLevel(logLevel)
				if !ok {
					return fmt.Errorf("unknown log level %q", logLevel)
				}
				log.SetLevel(level)
			case debug:
				log.SetLevel(log.Debug)
			case verbose:
				log.SetLevel(log.Info)
			default:
				log.SetLevel(log.Notice)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress and BVH statistics")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log everything, including texture loads")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "notice", "debug, info, notice, warning or error; overrides -v and --debug")

	rootCmd.AddCommand(newRenderCmd(logger), newInfoCmd(logger), newScenesCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func formatVec(v core.Vec3) string {
	return fmt.Sprintf("(%.3g, %.3g, %.3g)", v.X, v.Y, v.Z)
}
