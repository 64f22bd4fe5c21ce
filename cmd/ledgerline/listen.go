package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Start the platform message listeners and run until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := buildPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = p.store.Close() }()
			defer p.manager.Cleanup()

			userID, accountID := activeIdentity()
			if err := p.manager.Initialize(ctx, userID, accountID); err != nil {
				return err
			}

			fmt.Println("Listening for messages. Press Ctrl+C to stop.")
			<-ctx.Done()
			return nil
		},
	}
}
