package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/cli"
)

func ingestCmd() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "ingest [text]",
		Short: "Ingest a pasted message through the transaction pipeline",
		Long: `Runs pasted text through the same normalize/detect/dedup path as
automatic sources. With --file, ingests one message per line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if fromFile != "" {
				return ingestFile(cmd, p, fromFile)
			}

			if len(args) == 0 {
				return fmt.Errorf("provide message text or --file")
			}

			result := p.manager.ManualIngest(ctx, args[0])
			fmt.Println(cli.FormatResult(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "ingest one message per line from a file")
	return cmd
}

func ingestFile(cmd *cobra.Command, p *pipeline, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(lines),
		progressbar.OptionSetDescription("Ingesting messages"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	recorded, rejected := 0, 0
	for _, line := range lines {
		result := p.manager.ManualIngest(cmd.Context(), line)
		if result.Success {
			recorded++
		} else {
			rejected++
		}
		_ = bar.Add(1)
	}

	fmt.Printf("%s %d recorded, %d rejected\n",
		cli.TitleStyle.Render("Done:"), recorded, rejected)
	return nil
}
