package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tcboard-dev/tcboard/internal/config"
	"github.com/tcboard-dev/tcboard/internal/model"
	"github.com/tcboard-dev/tcboard/internal/pipeline"
	"github.com/tcboard-dev/tcboard/internal/refdate"
	"github.com/tcboard-dev/tcboard/internal/store"
)

func newScenarioCommand() *cobra.Command {
	var (
		periodStr  string
		configPath string

		min, p25, p95, max, mean float64
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Record a simulated usury-rate distribution for a period",
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

			s := model.UsuryScenario{
				Period: period.Last(),
				Min:    min,
				P25:    p25,
				P95:    p95,
				Max:    max,
				Mean:   mean,
			}
			if err := pipeline.AppendScenario(ctx, st, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded usury scenario for %s\n", period.Last().Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&periodStr, "period", "", "reporting period, YYYY-MM (required)")
	_ = cmd.MarkFlagRequired("period")
	cmd.Flags().Float64Var(&min, "min", 0, "minimum simulated rate, EA percent")
	cmd.Flags().Float64Var(&p25, "p25", 0, "25th percentile, EA percent")
	cmd.Flags().Float64Var(&p95, "p95", 0, "95th percentile, EA percent")
	cmd.Flags().Float64Var(&max, "max", 0, "maximum simulated rate, EA percent")
	cmd.Flags().Float64Var(&mean, "mean", 0, "mean simulated rate, EA percent")
	cmd.Flags().StringVar(&configPath, "config", config.File, "configuration file")

	return cmd
}
