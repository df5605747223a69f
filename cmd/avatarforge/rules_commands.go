package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"avatarforge/internal/automap"
	"avatarforge/internal/errs"
	"avatarforge/internal/slice"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and manage mapping rules",
	}

	rulesCmd.AddCommand(newRulesListCommand(ctx))
	rulesCmd.AddCommand(newRulesAddCommand(ctx))
	rulesCmd.AddCommand(newRulesLearnCommand(ctx))
	rulesCmd.AddCommand(newRulesClearCommand(ctx))
	rulesCmd.AddCommand(newRulesExportCommand(ctx))

	return rulesCmd
}

func newRulesListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var learnedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active rules in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			mapper, err := ctx.newMapper(cmd.Context())
			if err != nil {
				return err
			}
			rules := mapper.Rules()
			if learnedOnly {
				rules = mapper.Learned()
			}
			if jsonOut {
				return writeJSON(cmd, ruleViews(rules))
			}
			rows := make([][]string, 0, len(rules))
			for _, rule := range rules {
				rows = append(rows, []string{
					rule.Pattern,
					rule.SlotPath(),
					strconv.FormatFloat(rule.Confidence, 'f', 2, 64),
					yesNo(rule.Learned),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Pattern", "Target", "Confidence", "Learned"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit rules as JSON")
	cmd.Flags().BoolVar(&learnedOnly, "learned", false, "Show only learned rules")
	return cmd
}

func newRulesAddCommand(ctx *commandContext) *cobra.Command {
	var confidence float64

	cmd := &cobra.Command{
		Use:   "add <pattern> <group/slot>",
		Short: "Persist a learned rule with an explicit pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, rest, ok := strings.Cut(args[1], "/")
			if !ok || group == "" || rest == "" {
				return errs.Wrap(errs.ErrInput, "cli", "rules add", "target must be group/slot: "+args[1], nil)
			}
			rule, err := automap.NewRule(args[0], group, rest, confidence)
			if err != nil {
				return errs.Wrap(errs.ErrInput, "cli", "rules add", args[0], err)
			}
			store, err := ctx.openRules()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Save(cmd.Context(), rule); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved rule %q -> %s\n", rule.Pattern, rule.SlotPath())
			return nil
		},
	}

	cmd.Flags().Float64Var(&confidence, "confidence", 0.8, "Base confidence for the rule")
	return cmd
}

func newRulesLearnCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn <slice-name> <group/slot>",
		Short: "Record a manual assignment and learn an exact-name rule from it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapper, err := ctx.newMapper(cmd.Context())
			if err != nil {
				return err
			}
			s := &slice.Slice{Name: args[0]}
			match, added, err := mapper.ManualMap(s, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !added {
				fmt.Fprintf(out, "Rule for %q -> %s already known\n", args[0], match.SlotPath)
				return nil
			}
			store, err := ctx.openRules()
			if err != nil {
				return err
			}
			defer store.Close()
			learned := mapper.Learned()
			if err := store.Save(cmd.Context(), learned[len(learned)-1]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Learned %q -> %s\n", args[0], match.SlotPath)
			return nil
		},
	}
	return cmd
}

func newRulesClearCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every learned rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openRules()
			if err != nil {
				return err
			}
			defer store.Close()
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d learned rules\n", removed)
			return nil
		},
	}
	return cmd
}

func newRulesExportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the active rule set as a PCS_RULES.yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapper, err := ctx.newMapper(cmd.Context())
			if err != nil {
				return err
			}
			if err := automap.SaveRulesYAML(args[0], mapper.Rules()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rules to %s\n", len(mapper.Rules()), args[0])
			return nil
		},
	}
	return cmd
}

type ruleView struct {
	Pattern    string  `json:"pattern"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
	Learned    bool    `json:"learned"`
}

func ruleViews(rules []automap.Rule) []ruleView {
	views := make([]ruleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, ruleView{
			Pattern:    rule.Pattern,
			Target:     rule.SlotPath(),
			Confidence: rule.Confidence,
			Learned:    rule.Learned,
		})
	}
	return views
}
