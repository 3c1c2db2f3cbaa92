package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentops/licensetrack/internal/licensing"
)

func newLicensingCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "licensing",
		Short: "Producer directory imports",
	}
	cmd.AddCommand(newLicensingImportCmd(rt))
	return cmd
}

func newLicensingImportCmd(rt *runtime) *cobra.Command {
	var (
		npn        string
		salesmanID string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import licensing by --npn or for an existing --salesman-id",
		RunE: func(cmd *cobra.Command, args []string) error {
			npn = strings.TrimSpace(npn)
			salesmanID = strings.TrimSpace(salesmanID)
			if (npn == "") == (salesmanID == "") {
				return errors.New("exactly one of --npn or --salesman-id is required")
			}

			var id uuid.UUID
			if salesmanID != "" {
				parsed, err := uuid.Parse(salesmanID)
				if err != nil {
					return fmt.Errorf("invalid --salesman-id: %w", err)
				}
				id = parsed
			}

			return rt.withSession(cmd.Context(), func(s *session) error {
				if s.licensing == nil {
					return errors.New("directory credentials are not configured")
				}
				var (
					summary *licensing.ImportSummary
					err     error
				)
				if npn != "" {
					summary, err = s.licensing.ImportByNPN(cmd.Context(), npn)
				} else {
					summary, err = s.licensing.Import(cmd.Context(), id)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), summary)
			})
		},
	}

	cmd.Flags().StringVar(&npn, "npn", "", "National producer number")
	cmd.Flags().StringVar(&salesmanID, "salesman-id", "", "Existing salesman UUID")
	return cmd
}
