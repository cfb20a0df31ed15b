package app

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the fxconverter CLI: serve runs the HTTP API, convert
// performs a single conversion.
func NewRootCommand(version string) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "fxconverter",
		Short:         "Currency converter backed by ExchangeRate-API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "Path to config file")

	rootCmd.AddCommand(serveCommand(&configFile), convertCommand(&configFile))
	return rootCmd
}

func serveCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the snapshot warm-up scheduler",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return Run(*configFile)
		},
	}
}

func convertCommand(configFile *string) *cobra.Command {
	var opts ConvertOptions

	convertCmd := &cobra.Command{
		Use:     "convert",
		Short:   "Convert an amount once and print the result",
		Example: "  fxconverter convert --from USD --to EUR --amount 100",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Convert(cmd.Context(), *configFile, opts, cmd.OutOrStdout())
		},
	}
	convertCmd.Flags().StringVar(&opts.From, "from", "USD", "Source currency code")
	convertCmd.Flags().StringVar(&opts.To, "to", "EUR", "Target currency code")
	convertCmd.Flags().StringVar(&opts.Amount, "amount", "1", "Amount to convert")
	convertCmd.Flags().BoolVar(&opts.Swap, "swap", false, "Swap the currencies before converting")

	return convertCmd
}
