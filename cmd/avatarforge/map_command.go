package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"avatarforge/internal/automap"
	"avatarforge/internal/avatar"
	"avatarforge/internal/slice"
)

func newMapCommand(ctx *commandContext) *cobra.Command {
	var name string
	var rigID string
	var anchors []string
	var rulesPath string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "map <slices-dir>",
		Short: "Map extracted slices onto canonical slots",
		Long: "Runs the rule engine over the slice index in <slices-dir> and writes " +
			"the resulting slot mapping to " + mappingFilename + " in the same directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := slice.LoadIndex(args[0], logger)
			if err != nil {
				return err
			}
			mapper, err := ctx.newMapper(cmd.Context())
			if err != nil {
				return err
			}
			if rulesPath != "" {
				extra, err := automap.LoadRulesYAML(rulesPath, logger)
				if err != nil {
					return err
				}
				for _, rule := range extra {
					if _, err := mapper.AddLearned(rule); err != nil {
						return err
					}
				}
			}

			result := mapper.MapSlices(store.All())

			av := avatar.New(name, rigID)
			for _, match := range result.Mapped {
				m := avatar.NewMapping(match.Slice.ID, match.Slice.Bounds, 0, "", match.Slice.Visible)
				if err := av.AddSliceMapping(match.SlotPath, m); err != nil {
					return err
				}
			}
			for _, value := range anchors {
				anchorName, point, err := parseAnchor(value)
				if err != nil {
					return err
				}
				av.SetAnchor(anchorName, point)
			}
			if err := writeMapping(args[0], av); err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, mapReport(result))
			}
			return renderMapResult(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "avatar", "Avatar display name")
	cmd.Flags().StringVarP(&rigID, "rig", "r", "default", "Rig identifier stamped into the mapping")
	cmd.Flags().StringArrayVar(&anchors, "anchor", nil, "Named anchor as name=x,y (repeatable)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "Additional alias rules from a PCS_RULES.yaml file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the mapping report as JSON")
	return cmd
}

type mapReportEntry struct {
	Slice      string  `json:"slice"`
	Slot       string  `json:"slot,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Pattern    string  `json:"pattern,omitempty"`
	Mapped     bool    `json:"mapped"`
}

func mapReport(result automap.Result) []mapReportEntry {
	entries := make([]mapReportEntry, 0, len(result.Mapped)+len(result.Unmapped))
	for _, match := range result.Mapped {
		entries = append(entries, mapReportEntry{
			Slice:      match.Slice.Name,
			Slot:       match.SlotPath,
			Confidence: match.Confidence,
			Pattern:    match.Pattern,
			Mapped:     true,
		})
	}
	for _, s := range result.Unmapped {
		entries = append(entries, mapReportEntry{Slice: s.Name})
	}
	return entries
}

func renderMapResult(cmd *cobra.Command, result automap.Result) error {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(result.Mapped))
	for _, match := range result.Mapped {
		rows = append(rows, []string{
			match.Slice.Name,
			match.SlotPath,
			strconv.FormatFloat(match.Confidence, 'f', 2, 64),
			match.Pattern,
		})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Slice", "Slot", "Confidence", "Rule"}, rows))
	if len(result.Unmapped) > 0 {
		fmt.Fprintf(out, "\n%d unmapped:\n", len(result.Unmapped))
		for _, s := range result.Unmapped {
			fmt.Fprintf(out, "  %s (%s)\n", s.Name, s.SourcePath)
		}
		fmt.Fprintln(out, "Assign these with `avatarforge rules learn <slice-name> <group/slot>` and re-run map.")
	}
	return nil
}
