package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rvergnes/edtcal/internal/cli/formatter"
	"github.com/rvergnes/edtcal/internal/domain"
)

func newRulesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage rename and hide rules for teachers, promos and subjects",
	}

	cmd.AddCommand(
		newRulesListCmd(app),
		newRulesRenameCmd(app),
		newRulesUnrenameCmd(app),
		newRulesHideCmd(app),
		newRulesUnhideCmd(app),
		newRulesExportCmd(app),
		newRulesImportCmd(app),
	)

	return cmd
}

func parseCategory(arg string) (domain.RuleCategory, error) {
	if !domain.ValidRuleCategories[arg] {
		return "", fmt.Errorf("unknown category %q (want teachers, promos or subjects)", arg)
	}
	return domain.RuleCategory(arg), nil
}

func newRulesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all configured rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := app.Rules.Get(context.Background())
			if err != nil {
				return err
			}

			for _, cat := range []struct {
				name string
				set  domain.RuleSet
			}{
				{"teachers", rules.Teachers},
				{"promos", rules.Promos},
				{"subjects", rules.Subjects},
			} {
				fmt.Println(formatter.Header(cat.name))
				printRuleSet(cat.set)
				fmt.Println()
			}
			return nil
		},
	}
}

func printRuleSet(rs domain.RuleSet) {
	renames := make([]string, 0, len(rs.Rename))
	for from := range rs.Rename {
		renames = append(renames, from)
	}
	sort.Strings(renames)
	for _, from := range renames {
		fmt.Printf("  %s → %s\n", from, formatter.Bold(rs.Rename[from]))
	}

	hidden := make([]string, 0, len(rs.Hide))
	for v, h := range rs.Hide {
		if h {
			hidden = append(hidden, v)
		}
	}
	sort.Strings(hidden)
	for _, v := range hidden {
		fmt.Printf("  %s %s\n", v, formatter.Dim("(hidden)"))
	}

	if len(renames) == 0 && len(hidden) == 0 {
		fmt.Println(formatter.Dim("  no rules"))
	}
}

func newRulesRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <category> <from> <to>",
		Short: "Add a rename rule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			return app.Rules.AddRename(context.Background(), cat, args[1], args[2])
		},
	}
}

func newRulesUnrenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unrename <category> <from>",
		Short: "Remove a rename rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			return app.Rules.RemoveRename(context.Background(), cat, args[1])
		},
	}
}

func newRulesHideCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hide <category> <value>",
		Short: "Hide a value (takes precedence over renames)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			return app.Rules.AddHide(context.Background(), cat, args[1])
		},
	}
}

func newRulesUnhideCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unhide <category> <value>",
		Short: "Stop hiding a value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			return app.Rules.RemoveHide(context.Background(), cat, args[1])
		},
	}
}

func newRulesExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export rules as YAML (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Rules.ExportYAML(context.Background())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Print(string(data))
				return nil
			}
			return os.WriteFile(args[0], data, 0600)
		},
	}
}

func newRulesImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all rules from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			return app.Rules.ImportYAML(context.Background(), data)
		},
	}
}
