package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pylon/pkg/config"
	"github.com/matzehuels/pylon/pkg/geometry"
)

func (c *CLI) meshCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "mesh [design.toml]",
		Short:             "Show the adjusted geometry and node mesh of a design",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDesign,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMesh(cmd.OutOrStdout(), args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the adjusted geometry and mesh as JSON")
	return cmd
}

func runMesh(w io.Writer, path string, asJSON bool) error {
	design, err := config.Load(path)
	if err != nil {
		return err
	}
	opts := design.Options()

	adj, err := geometry.AdjustFoundation(opts.Sections, opts.Foundation)
	if err != nil {
		return err
	}
	mesh, err := geometry.Discretize(adj.Sections, adj.BaseElevation, opts.Mesh)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Geometry geometry.Adjusted `json:"geometry"`
			Mesh     geometry.Mesh     `json:"mesh"`
		}{adj, mesh})
	}

	fmt.Fprintln(w, StyleTitle.Render(displayName(design.Name)))
	printKeyValue(w, "Base elevation", fmt.Sprintf("%.3f m", adj.BaseElevation))
	printKeyValue(w, "Top elevation", fmt.Sprintf("%.3f m", mesh.Top()))
	if opts.Foundation.Monopile {
		printKeyValue(w, "Mudline", fmt.Sprintf("%.3f m", adj.Mudline))
		printKeyValue(w, "Embedment", fmt.Sprintf("%.3f m", adj.Embedment))
	}
	if opts.HubHeight > 0 {
		hc := geometry.HeightConstraint(opts.HubHeight, opts.HubReference, mesh.Z)
		printKeyValue(w, "Height constraint", fmt.Sprintf("%.3f m", hc))
	}
	if adj.Clamped {
		printWarning(w, "pile depth clamped to %.3f m", adj.Embedment)
	}
	if adj.Extended {
		printDetail(w, "a section was added below the tower to reach the pile tip")
	}
	fmt.Fprintln(w, meshTable(mesh))
	return nil
}
