package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tcboard-dev/tcboard/internal/config"
	"github.com/tcboard-dev/tcboard/internal/pipeline"
	"github.com/tcboard-dev/tcboard/internal/refdate"
	"github.com/tcboard-dev/tcboard/internal/runlog"
	"github.com/tcboard-dev/tcboard/internal/store"
)

func newRunCommand() *cobra.Command {
	var (
		periodStr    string
		factsPath    string
		balancesPath string
		configPath   string
		workDir      string

		usuryCurrent float64
		usuryNext    float64
		implicitRate float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Recompute every dashboard table for one period",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := refdate.Parse(periodStr)
			if err != nil {
				return err
			}
			return runRun(cmd, runParams{
				period:       period,
				factsPath:    factsPath,
				balancesPath: balancesPath,
				configPath:   configPath,
				workDir:      workDir,
				usuryCurrent: usuryCurrent,
				usuryNext:    usuryNext,
				implicitRate: implicitRate,
			})
		},
	}

	cmd.Flags().StringVar(&periodStr, "period", "", "reporting period, YYYY-MM (required)")
	_ = cmd.MarkFlagRequired("period")
	cmd.Flags().StringVar(&factsPath, "facts", "", "transaction fact extract path (required)")
	_ = cmd.MarkFlagRequired("facts")
	cmd.Flags().StringVar(&balancesPath, "balances", "", "balance composition extract path (required)")
	_ = cmd.MarkFlagRequired("balances")
	cmd.Flags().Float64Var(&usuryCurrent, "usury-current", 0, "usury ceiling at cut-off, EA percent (required)")
	_ = cmd.MarkFlagRequired("usury-current")
	cmd.Flags().Float64Var(&usuryNext, "usury-next", 0, "usury ceiling announced for next month, EA percent")
	cmd.Flags().Float64Var(&implicitRate, "implicit-rate", 0, "implicit portfolio rate, EA percent")
	cmd.Flags().StringVar(&configPath, "config", config.File, "configuration file")
	cmd.Flags().StringVar(&workDir, "workdir", ".", "working directory for the run log")

	return cmd
}

type runParams struct {
	period       refdate.Date
	factsPath    string
	balancesPath string
	configPath   string
	workDir      string

	usuryCurrent float64
	usuryNext    float64
	implicitRate float64
}

func runRun(cmd *cobra.Command, params runParams) error {
	// A local .env is optional; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := loadConfig(params.configPath)
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

	facts, err := os.Open(params.factsPath)
	if err != nil {
		return fmt.Errorf("opening fact extract: %w", err)
	}
	defer facts.Close()

	balances, err := os.Open(params.balancesPath)
	if err != nil {
		return fmt.Errorf("opening balance extract: %w", err)
	}
	defer balances.Close()

	p := &pipeline.Pipeline{
		Store:          st,
		Out:            cmd.OutOrStdout(),
		ChunkSize:      cfg.Extracts.ChunkSize,
		LookbackMonths: cfg.Reconcile.LookbackMonths,
	}
	sum, err := p.Run(ctx, pipeline.Inputs{
		Period:       params.period,
		Facts:        facts,
		Balances:     balances,
		UsuryCurrent: params.usuryCurrent,
		UsuryNext:    params.usuryNext,
		ImplicitRate: params.implicitRate,
	})
	if err != nil {
		return err
	}

	if err := runlog.Append(params.workDir, sum.Audit); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to write run log: %v\n", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"run %s done: %d transactions (%d matched, %d fallback), %d balance rows, %d warnings\n",
		sum.RunID, sum.FactRows, sum.Matched, sum.Fallback, sum.BalanceRows, len(sum.Warnings))
	return nil
}

// loadConfig reads the file when it exists and falls back to defaults
// otherwise, so a bare checkout can still run.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default("default"), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
