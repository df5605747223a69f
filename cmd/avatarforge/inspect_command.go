package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"avatarforge/internal/slice"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect <slices-dir>",
		Short: "Show the slice index and, when present, the current mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := slice.LoadIndex(args[0], logger)
			if err != nil {
				return err
			}

			slotBySlice := make(map[slice.ID]string)
			if av, err := readMapping(args[0]); err == nil {
				for _, slot := range av.SlotPaths() {
					if m, ok := av.Mapping(slot); ok {
						slotBySlice[m.SliceID] = slot
					}
				}
			}

			if jsonOut {
				return writeJSON(cmd, inspectViews(store, slotBySlice))
			}
			rows := make([][]string, 0, store.Len())
			for _, s := range store.All() {
				rows = append(rows, []string{
					s.Name,
					s.SourcePath,
					s.Bounds.String(),
					yesNo(s.Visible),
					slotBySlice[s.ID],
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Slice", "Source", "Bounds", "Visible", "Slot"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the index as JSON")
	return cmd
}

type inspectView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Source  string `json:"source"`
	Bounds  string `json:"bounds"`
	Visible bool   `json:"visible"`
	Slot    string `json:"slot,omitempty"`
}

func inspectViews(store *slice.Store, slotBySlice map[slice.ID]string) []inspectView {
	views := make([]inspectView, 0, store.Len())
	for _, s := range store.All() {
		views = append(views, inspectView{
			ID:      string(s.ID),
			Name:    s.Name,
			Source:  s.SourcePath,
			Bounds:  s.Bounds.String(),
			Visible: s.Visible,
			Slot:    slotBySlice[s.ID],
		})
	}
	return views
}
