package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tsukumogami/buildvars/internal/buildfile"
	"github.com/tsukumogami/buildvars/internal/profile"
	"github.com/tsukumogami/buildvars/internal/vars"
)

// isTerminalFunc reports whether a file descriptor is a terminal.
// It can be overridden for testing.
var isTerminalFunc = term.IsTerminal

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	anchorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the OS profiles and the argument names each reads",
	Long: `List the OS profiles in detection order, with the argument name each
profile reads for every build variable.

Profiles from the build description in the working directory (or --file)
are included. To build on an unlisted OS, pass the argument names of a
listed one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		profiles := vars.BuiltinProfiles()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, findErr := buildfile.Find(cfg.WorkDir)
		if fileFlag != "" || cfg.DescriptionFile != "" || findErr == nil {
			desc, err := loadDescription(cfg)
			if err != nil {
				return err
			}
			profiles = profile.Merge(profiles, desc.Profiles)
		}

		table, err := profile.NewTable(profiles, vars.DetectionAnchor)
		if err != nil {
			return err
		}

		renderProfiles(os.Stdout, table, isTerminalFunc(int(os.Stdout.Fd())))
		return nil
	},
}

// renderProfiles prints the profile table. Headers are colored when styled.
func renderProfiles(w io.Writer, table *profile.Table, styled bool) {
	variables := table.Variables()
	columns := append([]string{"KEY", "NAME"}, variables...)

	rows := make([][]string, 0, len(table.Profiles()))
	for _, p := range table.Profiles() {
		row := []string{p.Key, p.Name}
		for _, v := range variables {
			name, ok := p.ArgName(v)
			if !ok {
				name = "-"
			}
			row = append(row, name)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	header, anchor, plain := lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	if styled {
		header, anchor = headerStyle, anchorStyle
	}

	var sb strings.Builder
	for i, c := range columns {
		sb.WriteString(header.Width(widths[i] + 2).Render(c))
	}
	fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))

	for _, row := range rows {
		sb.Reset()
		for i, cell := range row {
			style := plain
			if i >= 2 && variables[i-2] == table.Anchor() {
				style = anchor
			}
			sb.WriteString(style.Width(widths[i] + 2).Render(cell))
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}

	fmt.Fprintf(w, "\nThe OS is the first profile whose %s argument is non-empty.\n", table.Anchor())
}
