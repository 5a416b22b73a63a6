package main

import (
	"fmt"

	"github.com/akmonengine/navfunnel/surface"
	"github.com/spf13/cobra"
)

func PackCmd() *cobra.Command {
	var meshFile, outFile string
	c := &cobra.Command{
		Use:   "pack",
		Short: "write the binary snapshot of a mesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := surface.LoadFile(meshFile)
			if err != nil {
				return err
			}
			if err = s.SaveFile(outFile); err != nil {
				return err
			}
			fmt.Printf("%d triangles written to %s\n", s.TriangleCount(), outFile)
			return nil
		},
	}
	c.Flags().StringVar(&meshFile, "mesh", "navmesh.hjson", "mesh file (.hjson, .json or .msgpack)")
	c.Flags().StringVar(&outFile, "out", "navmesh.msgpack", "snapshot file")
	return c
}
