package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"avatarforge/internal/errs"
	"avatarforge/internal/schema"
	"avatarforge/internal/wardrobe"
)

func newWardrobeCommand(ctx *commandContext) *cobra.Command {
	wardrobeCmd := &cobra.Command{
		Use:   "wardrobe",
		Short: "Extract re-usable wardrobe items from a mapped avatar",
	}
	wardrobeCmd.AddCommand(newWardrobeExtractCommand(ctx))
	return wardrobeCmd
}

func newWardrobeExtractCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "extract <slices-dir> <type> <sku> <slot>...",
		Short: "Extract a subset of mapped slots as an item.json",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			av, err := readMapping(args[0])
			if err != nil {
				return err
			}
			item, err := wardrobe.Extract(av, args[1], args[2], args[3:])
			if err != nil {
				return err
			}
			if findings := schema.ValidateItem(item); !findings.Valid() {
				return errs.Wrap(errs.ErrValidation, "cli", "wardrobe extract", findings.Errors[0].String(), nil)
			}
			if outPath == "" {
				return writeJSON(cmd, item)
			}
			payload, err := item.Marshal()
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, payload, 0o644); err != nil {
				return errs.Wrap(errs.ErrIO, "cli", "write item", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s/%s to %s (fit box %s)\n", item.Type, item.SKU, outPath, item.FitBox)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write item.json here instead of stdout")
	return cmd
}
