package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/fix"
)

type ruleRow struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Since    string `json:"since,omitempty"`
	Fixable  bool   `json:"fixable"`
	HelpLink string `json:"help_link,omitempty"`
}

func newRulesCmd(a *app) *cobra.Command {
	var (
		format   string
		withHost bool
	)
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the diagnostics mvvmgen can report",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			rows := ruleRows(withHost)
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			case "table", "":
				fmt.Fprintln(a.stdout, renderRules(rows, a.color))
				return nil
			}
			return fmt.Errorf("unsupported format %q (expected table|json)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format (table|json)")
	cmd.Flags().BoolVar(&withHost, "host", false, "include compiler diagnostics of the reference host")
	return cmd
}

func ruleRows(withHost bool) []ruleRow {
	var rows []ruleRow
	for _, d := range diag.Descriptors() {
		if d.Code.IsHost() && !withHost {
			continue
		}
		_, fixable := fix.Lookup(d.Code)
		rows = append(rows, ruleRow{
			ID:       d.ID(),
			Severity: d.Severity.String(),
			Category: string(d.Family),
			Title:    d.Title,
			Since:    d.Since,
			Fixable:  fixable,
			HelpLink: d.HelpLink(),
		})
	}
	return rows
}

func renderRules(rows []ruleRow, colored bool) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	sevColor := map[string]lipgloss.Color{"error": "1", "warning": "3", "info": "6"}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "SEVERITY", "CATEGORY", "FIX", "TITLE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if colored && col == 1 && row >= 0 && row < len(rows) {
				return cell.Foreground(sevColor[rows[row].Severity])
			}
			return cell
		})
	for _, r := range rows {
		fixMark := ""
		if r.Fixable {
			fixMark = "yes"
		}
		t.Row(r.ID, r.Severity, r.Category, fixMark, r.Title)
	}
	return t.Render()
}
