package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/collective-pool/internal/bootstrap"
)

// Opener builds the services for one invocation from the --config path.
type Opener func(ctx context.Context, cfgPath string) (*bootstrap.Services, error)

type app struct {
	open    Opener
	cfgPath string
	svc     *bootstrap.Services
}

func NewRootCmd(open Opener) *cobra.Command {
	a := &app{open: open}

	rootCmd := &cobra.Command{
		Use:          "poolctl",
		Short:        "Inspect and operate collective reward pools",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context(), a.cfgPath)
			if err != nil {
				return err
			}
			a.svc = svc
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.svc == nil {
				return nil
			}
			return a.svc.Close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML config file layered over the environment")

	rootCmd.AddCommand(
		a.seedCmd(),
		a.showCmd(),
		a.previewCmd(),
		a.createCmd(),
		a.joinCmd(),
		a.distributeCmd(),
		a.distributeAllCmd(),
		a.forecastCmd(),
		a.splitCmd(),
	)

	return rootCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
