package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sortable/listingmatch/internal/config"
	"github.com/sortable/listingmatch/internal/obs"
	"github.com/sortable/listingmatch/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	var (
		productsPath string
		listingsPath string
		configPath   string
		debug        bool
		kDisambig    float64
		kPrune       float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve listings against the product catalog and emit matches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			productsFile, err := os.Open(productsPath)
			if err != nil {
				return fmt.Errorf("open products file: %w", err)
			}
			defer productsFile.Close()

			listingsFile, err := os.Open(listingsPath)
			if err != nil {
				return fmt.Errorf("open listings file: %w", err)
			}
			defer listingsFile.Close()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("k-disambiguate") {
				cfg.KDisambiguate = kDisambig
			}
			if cmd.Flags().Changed("k-prune") {
				cfg.KPrune = kPrune
			}

			runID := obs.NewRunID()
			logger := obs.NewLogger(debug, runID)

			return pipeline.Run(cmd.Context(), pipeline.Options{
				Products: productsFile,
				Listings: listingsFile,
				Output:   cmd.OutOrStdout(),
				Config:   cfg,
				Debug:    debug,
				Logger:   logger,
			})
		},
	}

	cmd.Flags().StringVar(&productsPath, "products", "products.txt", "path to the products JSON-Lines file")
	cmd.Flags().StringVar(&listingsPath, "listings", "listings.txt", "path to the listings JSON-Lines file")
	cmd.Flags().StringVar(&configPath, "config", "", "path to an optional pipeline config YAML file")
	cmd.Flags().BoolVar(&debug, "debug", false, "suppress emission; log per-listing resolver decisions instead")
	cmd.Flags().Float64Var(&kDisambig, "k-disambiguate", config.DefaultKDisambiguate, "price band width factor for Pass B disambiguation")
	cmd.Flags().Float64Var(&kPrune, "k-prune", config.DefaultKPrune, "price band width factor for Pass C outlier pruning")

	return cmd
}
