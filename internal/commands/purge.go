package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tcboard-dev/tcboard/internal/config"
	"github.com/tcboard-dev/tcboard/internal/refdate"
	"github.com/tcboard-dev/tcboard/internal/store"
)

func newPurgeCommand() *cobra.Command {
	var (
		periodStr  string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove one period's rows from every dashboard table",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := refdate.Parse(periodStr)
			if err != nil {
				return err
			}

			_ = godotenv.Load()
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			dsn, err := cfg.Store.DSN()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := store.Open(ctx, dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := st.PurgePeriod(ctx, period.Last()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged period %s\n", period.Last().Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&periodStr, "period", "", "reporting period, YYYY-MM (required)")
	_ = cmd.MarkFlagRequired("period")
	cmd.Flags().StringVar(&configPath, "config", config.File, "configuration file")

	return cmd
}
