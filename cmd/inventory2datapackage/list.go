package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/code4sa/inventory2datapackage/inventory"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var assetTypes = map[string]inventory.Predicate{
	"dataset": inventory.IsDataset,
	"gis map": inventory.IsGISMap,
}

func newListCommand() *cobra.Command {
	var assetType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the published assets of a type",
		Long: `List the public, published, non-derived assets of the inventory that have
the given type, one row per asset.`,
		Example: `  inventory2datapackage list
  inventory2datapackage list --type "gis map"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			isType, ok := assetTypes[assetType]
			if !ok {
				return fmt.Errorf("unknown asset type %q, want one of %s", assetType, strings.Join(typeNames(), ", "))
			}
			cfg := getConfig(cmd.Context())

			r, err := inventory.Open(cfg.InventoryPath())
			if err != nil {
				return err
			}
			defer r.Close()

			match := inventory.And(inventory.IsPublished, isType)
			t := table.NewWriter()
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"UID", "Public", "Derived", "Parent", "Type", "Category", "Stage", "Published", "Name"})
			n := 0
			for r.Next() {
				row := r.Row()
				if !match(row) {
					continue
				}
				t.AppendRow(table.Row{
					row.UID,
					row.Public,
					row.DerivedView,
					row.ParentUID,
					row.Type,
					row.Category,
					row.PublicationStage,
					row.PublishedVersionUID,
					row.Name,
				})
				n++
			}
			if err := r.Err(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, t.Render())
			_, _ = fmt.Fprintf(out, "%d published %s assets\n", n, assetType)
			return nil
		},
	}
	cmd.Flags().StringVar(&assetType, "type", "dataset", "Asset type ("+strings.Join(typeNames(), "|")+")")
	_ = cmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return typeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func typeNames() []string {
	names := make([]string, 0, len(assetTypes))
	for name := range assetTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
