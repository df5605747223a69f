package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"avatarforge/internal/bundle"
	"avatarforge/internal/slice"
	"avatarforge/internal/wardrobe"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var version string
	var itemSpecs []string
	var noAtlas bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "export <slices-dir>",
		Short: "Validate and export the bundle archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if noAtlas {
				adjusted := *cfg
				adjusted.Atlas.Enabled = false
				cfg = &adjusted
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			palette, err := ctx.palette()
			if err != nil {
				return err
			}
			store, err := slice.LoadIndex(args[0], logger)
			if err != nil {
				return err
			}
			av, err := readMapping(args[0])
			if err != nil {
				return err
			}
			mapper, err := ctx.newMapper(cmd.Context())
			if err != nil {
				return err
			}

			var items []wardrobe.Item
			for _, spec := range itemSpecs {
				itemType, sku, slots, err := parseItemSpec(spec)
				if err != nil {
					return err
				}
				item, err := wardrobe.Extract(av, itemType, sku, slots)
				if err != nil {
					return err
				}
				items = append(items, item)
			}

			exporter := bundle.NewExporter(cfg, logger, palette)
			summary, err := exporter.Export(cmd.Context(), bundle.Request{
				Avatar:  av,
				Slices:  store,
				Items:   items,
				Rules:   mapper.Rules(),
				Version: version,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %s\n", summary.Path)
			fmt.Fprintf(out, "  slots: %d, items: %d, elapsed: %s\n", summary.SlotCount, summary.ItemCount, summary.Elapsed.Round(time.Millisecond))
			if summary.AtlasSide > 0 {
				fmt.Fprintf(out, "  atlas: %dpx", summary.AtlasSide)
				if len(summary.AtlasOmitted) > 0 {
					fmt.Fprintf(out, " (%d slots kept loose)", len(summary.AtlasOmitted))
				}
				fmt.Fprintln(out)
			}
			for _, warning := range summary.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&version, "version", "v", "1.0.0", "Bundle version")
	cmd.Flags().StringArrayVar(&itemSpecs, "item", nil, "Wardrobe item as type:sku=slot,slot (repeatable)")
	cmd.Flags().BoolVar(&noAtlas, "no-atlas", false, "Skip atlas packing, keep loose slices only")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the export summary as JSON")
	return cmd
}
