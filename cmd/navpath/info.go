package main

import (
	"fmt"

	"github.com/akmonengine/navfunnel/surface"
	"github.com/spf13/cobra"
)

func InfoCmd() *cobra.Command {
	var meshFile string
	c := &cobra.Command{
		Use:   "info",
		Short: "print mesh statistics and validate its adjacency",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := surface.LoadFile(meshFile)
			if err != nil {
				return err
			}

			boundary := 0
			for i := 0; i < s.TriangleCount(); i++ {
				boundary += max(0, 3-len(s.Neighbors(i)))
			}

			fmt.Printf("vertices:       %d\n", len(s.Vertices))
			fmt.Printf("triangles:      %d\n", s.TriangleCount())
			fmt.Printf("adjacency:      %d links\n", len(s.Adjacency))
			fmt.Printf("boundary edges: %d\n", boundary)
			if err = s.Validate(); err != nil {
				fmt.Printf("validation:     %v\n", err)
				return err
			}
			fmt.Println("validation:     ok")
			return nil
		},
	}
	c.Flags().StringVar(&meshFile, "mesh", "navmesh.hjson", "mesh file (.hjson, .json or .msgpack)")
	return c
}
