package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/cli"
	"github.com/ledgerline/ledgerline/internal/storage"
)

func banksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List configured bank message patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := storage.NewSQLiteStorage(databasePath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			configs, err := loadBankConfigurations(ctx, store)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Bank configurations"))
			for _, cfg := range configs {
				status := cli.SuccessStyle.Render("active")
				if !cfg.Active {
					status = cli.SubtleStyle.Render("inactive")
				}
				fmt.Printf("%s (%s) [%s]\n", cfg.Name, cfg.Currency, status)
				for _, p := range cfg.Patterns {
					fmt.Printf("  %s  intent=%s  min-confidence=%.2f\n", p.Name, p.Intent, p.MinimumConfidence)
				}
			}
			return nil
		},
	}
}
