package cli

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

func identityFlags(cmd *cobra.Command, id *domain.Identity) {
	cmd.Flags().StringVar(&id.UserID, "user", "", "user id")
	cmd.Flags().StringVar(&id.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&id.WalletAddress, "wallet", "", "wallet address")
	_ = cmd.MarkFlagRequired("user")
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the ledger, seeding it if the store is empty, and list its pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.svc.Ledger.LoadOrSeed(cmd.Context())
			if err != nil {
				return err
			}

			pools := make([]domain.Pool, 0, len(l.Pools))
			for _, id := range l.PoolIDs() {
				pool, _ := l.Pool(id)
				pools = append(pools, pool)
			}
			return printJSON(cmd, pools)
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <pool-id>",
		Short: "Print a pool with its members and distribution history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := a.svc.Pools.GetPoolDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if detail == nil {
				return fmt.Errorf("%s: %w", args[0], domain.ErrPoolNotFound)
			}
			return printJSON(cmd, detail)
		},
	}
}

func (a *app) previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <pool-id>",
		Short: "Print the pool name, founder and member count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := a.svc.Pools.GetPoolPreview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if preview == nil {
				return fmt.Errorf("%s: %w", args[0], domain.ErrPoolNotFound)
			}
			return printJSON(cmd, preview)
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	var founder domain.Identity
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a pool with three weeks of simulated history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			pool, err := a.svc.Pools.CreatePool(cmd.Context(), ports.CreatePoolInput{Name: name, Founder: founder})
			if err != nil {
				return err
			}
			return printJSON(cmd, pool)
		},
	}
	identityFlags(cmd, &founder)
	return cmd
}

func (a *app) joinCmd() *cobra.Command {
	var member domain.Identity
	cmd := &cobra.Command{
		Use:   "join <pool-id>",
		Short: "Add a member to a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Pools.JoinPool(cmd.Context(), ports.JoinPoolInput{PoolID: args[0], Member: member})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	identityFlags(cmd, &member)
	return cmd
}

func (a *app) distributeCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "distribute <pool-id>",
		Short: "Record one simulated distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var at time.Time
			if asOf != "" {
				parsed, err := time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
				at = parsed.UTC()
			}

			dist, err := a.svc.Distributions.SimulateDistribution(cmd.Context(), args[0], at)
			if err != nil {
				return err
			}
			return printJSON(cmd, dist)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "RFC 3339 timestamp for the distribution (default now)")
	return cmd
}

func (a *app) distributeAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distribute-all",
		Short: "Record one distribution for every pool that has members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.svc.Distributions.DistributeAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
}

func (a *app) forecastCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "forecast <pool-id>",
		Short: "Project the weekly share as the pool grows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forecast, err := a.svc.Forecasts.Forecast(cmd.Context(), args[0], userID)
			if err != nil {
				return err
			}
			if forecast == nil {
				return fmt.Errorf("%s: %w", args[0], domain.ErrPoolNotFound)
			}
			return printJSON(cmd, forecast)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id the share is computed for")
	return cmd
}

func (a *app) splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split <pool-id> <amount>",
		Short: "Show how an amount would be split, without recording it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			split, err := a.svc.Distributions.PreviewSplit(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			if split == nil {
				return fmt.Errorf("%s: %w", args[0], domain.ErrPoolNotFound)
			}
			return printJSON(cmd, split)
		},
	}
}
