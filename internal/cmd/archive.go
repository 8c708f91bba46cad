package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/renato0307/agentplans/internal/logging"
)

// ArchiveCmd inspects the plan archive
type ArchiveCmd struct {
	List  ArchiveListCmd  `cmd:"list" help:"List archived plans" default:"1"`
	Purge ArchivePurgeCmd `cmd:"purge" help:"Remove archived plans past their retention"`
}

// ArchiveListCmd lists archived plans, newest first
type ArchiveListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the archive list command
func (a *ArchiveListCmd) Run(cli *CLI) error {
	entries, err := cli.Container.ArchiveIndex.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}

	if a.Format == "json" {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("Archive is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILENAME\tTITLE\tARCHIVED\tEXPIRES\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Filename, e.Title,
			e.ArchivedAt.Local().Format(timeLayout),
			e.ExpiresAt.Local().Format(timeLayout),
			e.ArchivePath)
	}
	return w.Flush()
}

// ArchivePurgeCmd removes expired archive entries
type ArchivePurgeCmd struct{}

// Run executes the archive purge command
func (a *ArchivePurgeCmd) Run(cli *CLI) error {
	logging.Logger.Info("Executing archive purge command")

	purged, err := cli.Container.ArchiveIndex.PurgeExpired(context.Background(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to purge archive: %w", err)
	}

	for _, e := range purged {
		fmt.Printf("Purged %s\n", e.ArchivePath)
	}
	fmt.Printf("%d archived plan(s) purged\n", len(purged))
	return nil
}
