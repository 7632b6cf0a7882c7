package cli

import (
	"fmt"

	"github.com/ComNetsHH/FlowEmu/internal/app"
	"github.com/ComNetsHH/FlowEmu/internal/config"
	"github.com/ComNetsHH/FlowEmu/internal/hcl"
	"github.com/ComNetsHH/FlowEmu/internal/topic"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	groupColor  = color.New(color.FgHiGreen, color.Bold)
	typeColor   = color.New(color.FgCyan)
	subtleColor = color.New(color.FgHiBlack)
	goodColor   = color.New(color.FgGreen)
)

func newLibraryCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "library",
		Short: "List the node templates available in the editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := app.LoadLibrary(cmd.Context(), hcl.NewLoader(), f.configPaths...)
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			printLibrary(cmd, model)
			return nil
		},
	}
}

func printLibrary(cmd *cobra.Command, model *config.Model) {
	w := cmd.OutOrStdout()
	count := 0
	for _, g := range model.Groups {
		groupColor.Fprintln(w, g.Name)
		for _, t := range g.Templates {
			params, stats := 0, 0
			for _, c := range t.Content {
				switch c.Kind {
				case "parameter":
					params++
				case "statistic":
					stats++
				}
			}
			fmt.Fprintf(w, "  %s %s ", typeColor.Sprintf("%-22s", t.Type), t.Title)
			subtleColor.Fprintf(w, "(%d parameters, %d statistics)\n", params, stats)
			count++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d templates in %d groups\n", count, len(model.Groups))
}

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match PATTERN TOPIC",
		Short: "Check whether a subscription pattern matches a topic",
		Long: `Check whether a subscription pattern matches a topic.

'+' matches exactly one level and '#' matches the remaining levels. Exits
with status 1 when the pattern does not match.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !topic.Matches(args[0], args[1]) {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%s does not match %s", args[0], args[1])}
			}
			goodColor.Fprintf(cmd.OutOrStdout(), "✔ %s matches %s\n", args[0], args[1])
			return nil
		},
	}
}
