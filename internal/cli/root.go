package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/config"
)

var (
	// Global flags
	jsonOutput bool
	configFile string

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for festplan.
var rootCmd = &cobra.Command{
	Use:     "festplan",
	Version: "dev",
	Short:   "Festival schedule planner",
	Long: `festplan plans which concerts of a festival lineup you can actually attend.

Pick concerts, rank them must see, want or maybe, and festplan works out which
picks overlap and which ones win. Swap a losing concert in, review the day by
day itinerary, and share plans as export files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion sets the version reported by --version and the version command.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// customHelpFunc renders help with colored section and group titles.
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder
	title := func(s string) {
		help.WriteString(sectionTitleColor.Sprint(s))
		help.WriteString("\n")
	}

	if desc := cmd.Long; desc != "" || cmd.Short != "" {
		if desc == "" {
			desc = cmd.Short
		}
		help.WriteString(desc)
		help.WriteString("\n\n")
	}

	title("Usage:")
	if cmd.Runnable() {
		fmt.Fprintf(&help, "  %s\n", cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "  %s [command]\n", cmd.CommandPath())
	}
	help.WriteString("\n")

	if len(cmd.Aliases) > 0 {
		title("Aliases:")
		fmt.Fprintf(&help, "  %s\n\n", strings.Join(append([]string{cmd.Name()}, cmd.Aliases...), ", "))
	}

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")
		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && c.IsAvailableCommand() {
				fmt.Fprintf(&help, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	var ungrouped []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.GroupID == "" && c.IsAvailableCommand() {
			ungrouped = append(ungrouped, c)
		}
	}
	if len(ungrouped) > 0 {
		if len(cmd.Groups()) > 0 {
			title("Additional Commands:")
		} else {
			title("Commands:")
		}
		for _, c := range ungrouped {
			fmt.Fprintf(&help, "  %-12s %s\n", c.Name(), c.Short)
		}
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() {
		title("Flags:")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString("\n")
	}
	if cmd.HasAvailableInheritedFlags() {
		title("Global Flags:")
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func init() {
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&configFile, "config", "", "Config file (default: .festplan.yaml in the data root or current directory)")
	flags.String("root", "", "Data directory (default: ~/.festplan)")
	flags.String("catalog", "", "Lineup file (default: <root>/lineup.yaml)")
	flags.String("plan", "", "Plan name (default: default)")
	flags.String("backend", "", fmt.Sprintf("Storage backend: %s (default: file)", strings.Join(config.Backends, ", ")))
	flags.BoolP("verbose", "v", false, "Log diagnostics to stderr")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "planning",
		Title: "Planning:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "viewing",
		Title: "Viewing:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "plans",
		Title: "Plan Files:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "server",
		Title: "API Server:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	// CLI & Tooling commands
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the festplan CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == nil {
				target = cmd.Root()
			}
			_ = target.Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for festplan for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	shells := []struct {
		name string
		gen  func(w io.Writer) error
	}{
		{"bash", rootCmd.GenBashCompletion},
		{"zsh", rootCmd.GenZshCompletion},
		{"fish", func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) }},
		{"powershell", rootCmd.GenPowerShellCompletionWithDesc},
	}
	for _, sh := range shells {
		completionCmd.AddCommand(&cobra.Command{
			Use:                   sh.name,
			Short:                 "Generate the autocompletion script for " + sh.name,
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return sh.gen(cmd.OutOrStdout())
			},
		})
	}
	rootCmd.AddCommand(completionCmd)

	// Planning commands
	addCmd.GroupID = "planning"
	rmCmd.GroupID = "planning"
	priorityCmd.GroupID = "planning"
	swapCmd.GroupID = "planning"
	clearCmd.GroupID = "planning"
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(swapCmd)
	rootCmd.AddCommand(clearCmd)

	// Viewing commands
	browseCmd.GroupID = "viewing"
	conflictsCmd.GroupID = "viewing"
	itineraryCmd.GroupID = "viewing"
	statusCmd.GroupID = "viewing"
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(conflictsCmd)
	rootCmd.AddCommand(itineraryCmd)
	rootCmd.AddCommand(statusCmd)

	// Plan file commands
	plansCmd.GroupID = "plans"
	exportCmd.GroupID = "plans"
	importCmd.GroupID = "plans"
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	// API server
	serveCmd.GroupID = "server"
	rootCmd.AddCommand(serveCmd)
}

// Execute executes the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), formatError(err))
	}
	return err
}
