package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/platipay/server/internal/app"
	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/shared/config"
)

type settingsLoader interface {
	Load(ctx context.Context, storeID int) (domain.MerchantSettings, error)
}

type statusQuerier interface {
	QueryStatus(ctx context.Context, settings domain.MerchantSettings, orderNumber, transID string) string
}

// env is what the commands need from a running application.
type env struct {
	settings settingsLoader
	payments statusQuerier
	storeID  int
	close    func()
}

type envLoader func(configFile string) (*env, error)

func loadAppEnv(configFile string) (*env, error) {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	return &env{
		settings: a.SettingsService(),
		payments: a.PaymentService(),
		storeID:  cfg.Server.StoreID,
		close:    a.Stop,
	}, nil
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(loadAppEnv)
}

func newRootCommandWith(load envLoader) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "poctl",
		Short:         "Operator tool for PlatiOnline payments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	withEnv := func(cmd *cobra.Command, run func(e *env, storeID int) error) error {
		e, err := load(configFile)
		if err != nil {
			return fmt.Errorf("load application: %w", err)
		}
		if e.close != nil {
			defer e.close()
		}
		storeID := e.storeID
		if cmd.Flags().Changed("store") {
			storeID, _ = cmd.Flags().GetInt("store")
		}
		return run(e, storeID)
	}

	root.AddCommand(newQueryCommand(withEnv), newSettingsCommand(withEnv))
	return root
}

type envRunner func(cmd *cobra.Command, run func(e *env, storeID int) error) error

func newQueryCommand(withEnv envRunner) *cobra.Command {
	var (
		orderID int
		transID string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the processor for one transaction and apply its status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(e *env, storeID int) error {
				ctx := cmd.Context()
				settings, err := e.settings.Load(ctx, storeID)
				if err != nil {
					return fmt.Errorf("load settings: %w", err)
				}
				out := e.payments.QueryStatus(ctx, settings, strconv.Itoa(orderID), transID)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&orderID, "order", 0, "order id")
	cmd.Flags().StringVar(&transID, "trans", "", "processor transaction id (x_trans_id)")
	cmd.Flags().Int("store", 0, "store id (defaults to server.store_id)")
	_ = cmd.MarkFlagRequired("order")
	_ = cmd.MarkFlagRequired("trans")
	return cmd
}

func newSettingsCommand(withEnv envRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the merchant settings in effect for a store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(e *env, storeID int) error {
				settings, err := e.settings.Load(cmd.Context(), storeID)
				if err != nil {
					return fmt.Errorf("load settings: %w", err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(settings.Masked())
			})
		},
	}
	cmd.Flags().Int("store", 0, "store id (defaults to server.store_id)")
	return cmd
}
