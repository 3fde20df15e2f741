package main

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chazu/raymesh/pkg/app"
	"github.com/chazu/raymesh/pkg/geom"
	"github.com/chazu/raymesh/pkg/mesh"
	"github.com/chazu/raymesh/pkg/slicer"
)

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats SCRIPT",
		Short: "Evaluate a scene script and print mesh statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, o := range r.Scene.Objects {
				fmt.Fprintf(w, "object %-12s material=%q triangles=%d\n", o.Name, o.Material, o.NumTriangles())
			}
			printStats(w, "total", r.Context.Stats())
			return nil
		},
	}
}

// planeOp runs a two-way distribution such as Split or Filter.
func (c *cli) planeOp(use, short string, op func(src, out, in *mesh.Context, pl geom.Plane) error) *cobra.Command {
	var plane string
	cmd := &cobra.Command{
		Use:   use + " SCRIPT",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := parsePlane(plane)
			if err != nil {
				return err
			}
			r, err := c.load(args[0])
			if err != nil {
				return err
			}
			src := r.Context
			out, in := src.Sibling(), src.Sibling()
			if err := op(src, out, in, pl); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printStats(w, "in", in.Stats())
			printStats(w, "out", out.Stats())
			return nil
		},
	}
	cmd.Flags().StringVar(&plane, "plane", "1,0,0,0", "plane as a,b,c,d with a*x+b*y+c*z+d = 0")
	return cmd
}

func (c *cli) splitCmd() *cobra.Command {
	return c.planeOp("split", "Cut the mesh along a plane and print both halves",
		func(src, out, in *mesh.Context, pl geom.Plane) error { return src.Split(out, in, pl) })
}

func (c *cli) filterCmd() *cobra.Command {
	return c.planeOp("filter", "Sort triangles by a plane without cutting",
		func(src, out, in *mesh.Context, pl geom.Plane) error { return src.Filter(out, in, pl) })
}

func (c *cli) partitionCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "partition SCRIPT",
		Short: "Split the mesh by the view cone of its first triangle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.load(args[0])
			if err != nil {
				return err
			}
			src := r.Context
			if source != "" {
				if src.View.Source, err = parsePoint(source); err != nil {
					return err
				}
			}
			k := mesh.NewCollector()
			src.SetCollector(k)
			out, in := src.Sibling(), src.Sibling()
			if err := src.Partition(out, in); err != nil {
				return err
			}
			// the reference triangle is fetched first into in
			if in.NumTriangles() > 0 {
				if err := in.Match(0); err != nil {
					return err
				}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "source   %s\n", src.View.Source)
			for _, t := range k.Matched() {
				fmt.Fprintf(w, "match    %s %s %s\n", t.P[0], t.P[1], t.P[2])
			}
			printStats(w, "in", in.Stats())
			printStats(w, "out", out.Stats())
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "source point x,y,z (defaults to the script view)")
	return cmd
}

func (c *cli) sliceCmd() *cobra.Command {
	var (
		planes    []string
		asJSON    bool
		keepEmpty bool
	)
	cmd := &cobra.Command{
		Use:   "slice SCRIPT",
		Short: "Cut the mesh recursively by several planes into cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pls := make([]geom.Plane, 0, len(planes))
			for _, p := range planes {
				pl, err := parsePlane(p)
				if err != nil {
					return err
				}
				pls = append(pls, pl)
			}
			r, err := c.load(args[0])
			if err != nil {
				return err
			}
			res, err := slicer.Slice(cmd.Context(), r.Context, pls, slicer.Options{
				Workers:   c.cfg.Workers,
				KeepEmpty: keepEmpty,
				Logger:    c.log,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data := lo.Map(res.Cells, func(cell slicer.Cell, i int) app.MeshData {
					return app.Export(cell.Context, "cell-"+cell.Path, i)
				})
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(data)
			}
			for _, cell := range res.Cells {
				printStats(w, "cell "+cell.Path, cell.Stats)
			}
			fmt.Fprintf(w, "%d cells, %d splits, %d triangles\n", len(res.Cells), res.Splits, res.Triangles())
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&planes, "plane", nil, "plane a,b,c,d (repeat for each level)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write cells as JSON meshes")
	cmd.Flags().BoolVar(&keepEmpty, "keep-empty", false, "keep cells without triangles")
	return cmd
}

func (c *cli) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump SCRIPT",
		Short: "Print every vertex, edge and triangle of the mesh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.load(args[0])
			if err != nil {
				return err
			}
			return r.Context.Dump(cmd.OutOrStdout())
		},
	}
}

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.cfg.Write(cmd.OutOrStdout())
		},
	}
}
