package main

import (
	"fmt"
	"io"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/spf13/cobra"
)

func newInfoCmd(logger core.Logger) *cobra.Command {
	var host bool

	cmd := &cobra.Command{
		Use:   "info [scene]",
		Short: "Display scene statistics",
		Long:  "Show shape and light counts, BVH statistics, scene bounds and camera settings for a builtin scene or a scene file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadScene(args[0], logger)
			if err != nil {
				return err
			}
			if err := s.Preprocess(); err != nil {
				return err
			}

			writeSceneInfo(cmd.OutOrStdout(), s)
			if host {
				if err := writeHostInfo(cmd.OutOrStdout()); err != nil {
					logger.Warningf("Host information unavailable: %v", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&host, "host", false, "also show CPU and memory of this machine")
	return cmd
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the builtin scenes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoFormatHeaders(false)
			table.SetHeader([]string{"Scene", "Description"})
			for _, info := range scene.ListBuiltinScenes() {
				table.Append([]string{info.Name, info.Description})
			}
			table.Render()
		},
	}
}

// writeSceneInfo expects a preprocessed scene
func writeSceneInfo(w io.Writer, s *scene.Scene) {
	bvh := s.BVH.Stats()
	bounds := s.Bounds()
	camera := s.Camera

	fmt.Fprintf(w, "Scene %q\n", s.Name)
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"Shapes", fmt.Sprintf("%d", len(s.Shapes))},
		{"Primitives", fmt.Sprintf("%d", s.GetPrimitiveCount())},
		{"Lights", fmt.Sprintf("%d", len(s.Lights))},
		{"BVH nodes", fmt.Sprintf("%d (%d leaves, depth %d)", bvh.Nodes, bvh.Leaves, bvh.MaxDepth)},
		{"Bounds min", formatVec(bounds.Min)},
		{"Bounds max", formatVec(bounds.Max)},
		{"Background", formatVec(s.Background)},
		{"Camera location", formatVec(camera.Location)},
		{"Camera gaze", formatVec(camera.Gaze)},
		{"Resolution", fmt.Sprintf("%dx%d", camera.ResolutionX, camera.ResolutionY)},
		{"Lens", fmt.Sprintf("%gmm on %gx%gmm sensor", camera.FocalLength, camera.SensorWidth, camera.SensorHeight)},
	})
	table.Render()

	kinds := tablewriter.NewWriter(w)
	kinds.SetAutoFormatHeaders(false)
	kinds.SetHeader([]string{"Shape", "Count"})
	for _, count := range s.ShapeCounts() {
		kinds.Append([]string{count.Kind, fmt.Sprintf("%d", count.Count)})
	}
	kinds.Render()

	if len(s.Lights) == 0 {
		return
	}
	lightTable := tablewriter.NewWriter(w)
	lightTable.SetAutoFormatHeaders(false)
	lightTable.SetHeader([]string{"Light", "Type", "Position", "Intensity", "Radius"})
	for i, light := range s.Lights {
		lightTable.Append([]string{
			fmt.Sprintf("%d", i),
			string(light.Type()),
			formatVec(light.Position),
			formatVec(light.Intensity),
			fmt.Sprintf("%g", light.Radius),
		})
	}
	lightTable.Render()
}

func writeHostInfo(w io.Writer) error {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return err
	}
	if len(cpuInfo) == 0 {
		return fmt.Errorf("no CPU information available")
	}
	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Host", "Value"})
	table.AppendBulk([][]string{
		{"CPU", cpuInfo[0].ModelName},
		{"Logical cores", fmt.Sprintf("%d", len(cpuInfo))},
		{"Clock", fmt.Sprintf("%.2f GHz", cpuInfo[0].Mhz/1000)},
		{"Memory", fmt.Sprintf("%.1f GiB", float64(memInfo.Total)/(1<<30))},
	})
	table.Render()
	return nil
}
