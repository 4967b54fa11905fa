package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/batch"
)

var (
	batchInputPath  string
	batchOutputPath string
	batchLimit      int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrich companies from a .json or .xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		inputs, err := batch.LoadInputs(batchInputPath)
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(inputs) > batchLimit {
			inputs = inputs[:batchLimit]
		}
		if len(inputs) == 0 {
			return eris.Errorf("no company records in %s", batchInputPath)
		}

		zap.L().Info("batch starting",
			zap.String("input", batchInputPath),
			zap.Int("companies", len(inputs)),
		)

		result, err := env.Coord.Run(ctx, inputs)
		if err != nil {
			return eris.Wrap(err, "run batch")
		}

		out := os.Stdout
		if batchOutputPath != "" {
			f, err := os.Create(batchOutputPath)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchInputPath, "input", "i", "", "input file, .json or .xlsx (required)")
	batchCmd.Flags().StringVarP(&batchOutputPath, "output", "o", "", "write results to file instead of stdout")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of companies to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
