package main

import (
	"fmt"

	"github.com/akmonengine/navfunnel"
	"github.com/akmonengine/navfunnel/surface"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

func PathCmd() *cobra.Command {
	var meshFile, configFile string
	var from, to []float64
	c := &cobra.Command{
		Use:   "path",
		Short: "print the funneled path between two points",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := toVec3("from", from)
			if err != nil {
				return err
			}
			end, err := toVec3("to", to)
			if err != nil {
				return err
			}

			cfg := navfunnel.DefaultConfig()
			if configFile != "" {
				if cfg, err = navfunnel.LoadConfigFile(configFile); err != nil {
					return err
				}
			}
			logger, err := navfunnel.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			s, err := surface.LoadFile(meshFile)
			if err != nil {
				return err
			}

			planner := navfunnel.NewPlanner(s, cfg, logger)
			var failure error
			planner.Events.Subscribe(navfunnel.PATH_FAILED, func(event navfunnel.Event) {
				failure = event.(navfunnel.PathFailedEvent).Err
			})

			agent := navfunnel.NewAgent("cli", start)
			agent.SetDestination(end)
			planner.AddAgent(agent)
			planner.Update()

			if failure != nil {
				return failure
			}

			fmt.Printf("corridor: %v\n", agent.Corridor)
			for i, p := range agent.Path[:agent.PathLength] {
				fmt.Printf("%d: %.4f %.4f %.4f\n", i, p.X(), p.Y(), p.Z())
			}
			return nil
		},
	}
	c.Flags().StringVar(&meshFile, "mesh", "navmesh.hjson", "mesh file (.hjson, .json or .msgpack)")
	c.Flags().StringVar(&configFile, "config", "", "yaml config file")
	c.Flags().Float64SliceVar(&from, "from", nil, "start position x,y,z")
	c.Flags().Float64SliceVar(&to, "to", nil, "destination x,y,z")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}

func toVec3(name string, values []float64) (mgl64.Vec3, error) {
	if len(values) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("--%s expects x,y,z, got %d values", name, len(values))
	}
	return mgl64.Vec3{values[0], values[1], values[2]}, nil
}
