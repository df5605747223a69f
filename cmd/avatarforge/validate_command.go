package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"avatarforge/internal/errs"
	"avatarforge/internal/schema"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "validate <slices-dir>",
		Short: "Check the slot mapping for structural errors and completeness gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			palette, err := ctx.palette()
			if err != nil {
				return err
			}
			av, err := readMapping(args[0])
			if err != nil {
				return err
			}

			findings := schema.ValidateAvatarDocument(av.Document())
			findings.Merge(schema.CheckCompleteness(av, palette))

			if jsonOut {
				if err := writeJSON(cmd, findings); err != nil {
					return err
				}
			} else {
				renderFindings(cmd, findings)
			}
			if !findings.Valid() {
				return errs.Wrap(errs.ErrValidation, "cli", "validate",
					fmt.Sprintf("%d blocking findings", len(findings.Errors)), nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit findings as JSON")
	return cmd
}

func renderFindings(cmd *cobra.Command, findings schema.Findings) {
	out := cmd.OutOrStdout()
	if findings.Valid() && len(findings.Warnings) == 0 {
		fmt.Fprintln(out, "Mapping valid, no warnings")
		return
	}
	rows := make([][]string, 0, len(findings.Errors)+len(findings.Warnings))
	for _, f := range findings.Errors {
		rows = append(rows, []string{"error", f.Code, f.Slot, f.Message})
	}
	for _, f := range findings.Warnings {
		rows = append(rows, []string{"warning", f.Code, f.Slot, f.Message})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Severity", "Code", "Slot", "Detail"}, rows))
}
