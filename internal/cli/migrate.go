package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply the embedded SQL migrations in version order.

Already applied versions are skipped, so running it twice is harmless.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				migrations, err := pgrepo.Migrations()
				if err != nil {
					return err
				}
				for _, m := range migrations {
					fmt.Fprintln(cmd.OutOrStdout(), m.Version)
				}
				return nil
			}
			return runMigrate(cmd, rootOpts)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the embedded migration versions and exit")

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *RootOptions) error {
	rt, err := openRuntime(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	applied, err := pgrepo.Migrate(cmd.Context(), rt.pool)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	}
	for _, version := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", version)
	}
	return nil
}
