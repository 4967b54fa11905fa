package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/model"
)

var enrichInput model.CompanyInput

var enrichCmd = &cobra.Command{
	Use:     "enrich",
	Short:   "Enrich a single company and print the profile",
	Example: `  prospector enrich --name "Tacos El Buen Sabor" --phone "+52 55 1234 5678" --location "Ciudad de México"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		profile, err := env.Enricher.Enrich(ctx, enrichInput)
		if err != nil {
			return eris.Wrap(err, "enrich company")
		}

		zap.L().Info("enrichment complete",
			zap.String("company", profile.CompanyName),
			zap.Int("lead_score", profile.LeadScore),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput.Name, "name", "", "company name (required)")
	enrichCmd.Flags().StringVar(&enrichInput.Phone, "phone", "", "phone number")
	enrichCmd.Flags().StringVar(&enrichInput.Location, "location", "", "city or region")
	enrichCmd.Flags().StringVar(&enrichInput.Industry, "industry", "", "known industry (skips detection)")
	enrichCmd.Flags().StringVar(&enrichInput.Website, "website", "", "known website")
	_ = enrichCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(enrichCmd)
}
