package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentops/licensetrack/pkg/enums"
)

func newRosterCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Roster file imports",
	}
	cmd.AddCommand(newRosterImportCmd(rt), newNPNWorkbookCmd(rt))
	return cmd
}

func newRosterImportCmd(rt *runtime) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load a CSV roster (create, patch or upsert)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := enums.ParseRosterMode(mode)
			if err != nil {
				return fmt.Errorf("invalid --mode: %w", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return rt.withSession(cmd.Context(), func(s *session) error {
				summary, err := s.roster.Load(cmd.Context(), parsed, f)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), summary)
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(enums.RosterModeUpsert), "Load mode: create|patch|upsert")
	return cmd
}

func newNPNWorkbookCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "npn-workbook <file.xlsx|file.xls>",
		Short: "Import licensing for every NPN in column D of the first sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return rt.withSession(cmd.Context(), func(s *session) error {
				summary, err := s.roster.ImportWorkbookNPNs(cmd.Context(), f)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}
