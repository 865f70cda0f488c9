package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

func (a *App) today() string {
	return a.now().Format(models.DateLayout)
}

func (a *App) Add(ctx context.Context, _ []string) error {
	title, err := getSimpleText(a.reader, "Title (optional)", a.out)
	if err != nil {
		return err
	}
	date, err := GetTextWithDefault(a.reader, "Date (YYYY-MM-DD)", a.today(), a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	n, err := a.store.Create(ctx, models.NoteInput{Title: title, Content: content, Datestamp: date})
	if err != nil {
		return err
	}
	a.printf("Saved %s\n", n.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("edit <id>")
	}
	id, err := resolveID(args[0], a.store.Active())
	if err != nil {
		return err
	}
	cur, _ := a.store.Get(id)

	title, err := GetTextWithDefault(a.reader, "Title", cur.Title, a.out)
	if err != nil {
		return err
	}
	date, err := GetTextWithDefault(a.reader, "Date (YYYY-MM-DD)", cur.Datestamp, a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		content = cur.Content
	}

	n, err := a.store.Save(ctx, id, models.NoteInput{Title: title, Content: content, Datestamp: date})
	if err != nil {
		return err
	}
	a.printf("Updated %s\n", n.ID)
	return nil
}

func (a *App) printNotes(ns []models.Note, empty string) {
	if len(ns) == 0 {
		a.println(empty)
		return
	}
	for _, n := range ns {
		a.println(noteLine(n))
	}
}

func (a *App) List(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.printNotes(a.store.Active(), "No notes.")
		return nil
	}
	if len(args) > 2 {
		return usageError("list [from [to]]")
	}

	from, to := args[0], args[0]
	if len(args) == 2 {
		to = args[1]
	}
	ns, err := a.store.ByDate(from, to)
	if err != nil {
		return err
	}
	a.printNotes(ns, "No notes in that range.")
	return nil
}

func (a *App) Show(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <id>")
	}
	id, err := resolveID(args[0], append(a.store.Active(), a.store.RecycleBin()...))
	if err != nil {
		return err
	}
	n, _ := a.store.Get(id)

	a.printf("ID:      %s\n", n.ID)
	a.printf("Title:   %s\n", n.Title)
	a.printf("Date:    %s\n", n.Datestamp)
	a.printf("Created: %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"))
	a.printf("Updated: %s\n", n.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if n.DeletedAt != nil {
		a.printf("Deleted: %s (in recycle bin)\n", n.DeletedAt.Local().Format("2006-01-02 15:04"))
	}
	a.println()
	a.println(n.Content)
	return nil
}

func (a *App) Search(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("search <text>")
	}
	a.printNotes(a.store.Search(strings.Join(args, " ")), "Nothing found.")
	return nil
}

func (a *App) Dates(_ context.Context, _ []string) error {
	ds := a.store.Dates()
	if len(ds) == 0 {
		a.println("No notes.")
		return nil
	}
	for _, d := range ds {
		a.printf("%s  %d\n", d.Datestamp, d.Count)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delete <id>")
	}
	id, err := resolveID(args[0], a.store.Active())
	if err != nil {
		return err
	}
	if err := a.store.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("Moved %s to the recycle bin.\n", shortID(id))
	return nil
}

func (a *App) Bin(_ context.Context, _ []string) error {
	ns := a.store.RecycleBin()
	if len(ns) == 0 {
		a.println("Recycle bin is empty.")
		return nil
	}
	for _, n := range ns {
		a.println(binLine(n))
	}
	return nil
}

func (a *App) binIDs(refs []string) ([]string, error) {
	bin := a.store.RecycleBin()
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		id, err := resolveID(r, bin)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("restore <id>...")
	}
	ids, err := a.binIDs(args)
	if err != nil {
		return err
	}
	n, err := a.store.Revive(ctx, ids...)
	if err != nil {
		return err
	}
	a.printf("Restored %d note(s).\n", n)
	return nil
}

func (a *App) Purge(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("purge <id>...")
	}
	ids, err := a.binIDs(args)
	if err != nil {
		return err
	}
	n, err := a.store.Purge(ctx, ids...)
	if err != nil {
		return err
	}
	a.printf("Permanently deleted %d note(s).\n", n)
	return nil
}

func (a *App) Empty(ctx context.Context, _ []string) error {
	if !Confirm(a.reader, "Permanently delete everything in the recycle bin? [y/N]", a.out) {
		a.println("Cancelled.")
		return nil
	}
	n, err := a.store.EmptyRecycleBin(ctx)
	if err != nil {
		return err
	}
	a.printf("Permanently deleted %d note(s).\n", n)
	return nil
}

func (a *App) Stats(_ context.Context, _ []string) error {
	c := a.store.Counts()
	a.printf("active %d, recycle bin %d, purged %d, deleted ids %d\n", c.Active, c.RecycleBin, c.Tombstones, c.DeletedIDs)
	return nil
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}
