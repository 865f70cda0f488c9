package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/client/notes"
)

func (a *App) Sync(ctx context.Context, _ []string) error {
	res, err := a.store.SyncFromRemote(ctx)
	if err != nil {
		return err
	}
	a.printf("Sync: %d added, %d added to recycle bin, %d skipped.\n", res.Added, res.AddedToRecycleBin, res.Skipped)
	return nil
}

func (a *App) Backup(ctx context.Context, _ []string) error {
	if !Confirm(a.reader, "Replace every note on the server with the local ones? [y/N]", a.out) {
		a.println("Cancelled.")
		return nil
	}

	canBackup := a.session != nil && a.session.CanBackup
	res, err := a.store.BackupToRemote(ctx, canBackup)
	if err != nil {
		return err
	}
	a.printf("Backup: %d active and %d recycle bin notes uploaded.\n", res.Active, res.RecycleBin)
	return nil
}

func (a *App) Export(ctx context.Context, _ []string) error {
	data, err := a.store.Export(ctx)
	if err != nil {
		return err
	}

	loc, err := a.sink.Write(ctx, notes.ExportFileName(a.now()), data)
	if err != nil {
		return err
	}
	a.printf("Exported to %s\n", loc)
	return nil
}

func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("import <file> [merge|replace]")
	}

	mode := notes.ImportMerge
	if len(args) == 2 {
		m, err := notes.ParseImportMode(args[1])
		if err != nil {
			return err
		}
		mode = m
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	if mode == notes.ImportReplace &&
		!Confirm(a.reader, "Replace all local notes with the file contents? [y/N]", a.out) {
		a.println("Cancelled.")
		return nil
	}

	res, err := a.store.Import(ctx, data, mode)
	if err != nil {
		return err
	}
	a.printf("Import (%s): %d active, %d to recycle bin, %d skipped, %d dropped.\n",
		mode, res.Active, res.Deleted, res.Skipped, res.Dropped)
	return nil
}
