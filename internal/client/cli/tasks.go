package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/calendar"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dmitrijs2005/taskkeeper/internal/client/syncer"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
	"github.com/dmitrijs2005/taskkeeper/internal/netx"
)

var downloadExport = netx.DownloadToFile

var errAmbiguousID = errors.New("id prefix matches more than one task")

func describeTask(t *models.Task) string {
	mark := " "
	if t.Done {
		mark = "x"
	}
	when := t.ScheduledTime
	if when == "" {
		when = "--:--"
	}
	id := t.ID
	if len(id) > 8 {
		id = id[:8]
	}
	s := fmt.Sprintf("[%s] %s  %s  (%s)", mark, when, t.Title, id)
	if !t.Synced {
		s += " *"
	}
	return s
}

func formatTask(n int, t *models.Task) string {
	return fmt.Sprintf("%2d. %s", n, describeTask(t))
}

// resolveID turns a row number of the last listing, a full id or a unique
// id prefix into a task id. With no argument the user is asked.
func (a *App) resolveID(ctx context.Context, args []string) (string, error) {
	var ref string
	if len(args) > 0 {
		ref = args[0]
	} else {
		var err error
		ref, err = getSimpleText(a.reader, "Task # or id", a.out)
		if err != nil {
			return "", err
		}
	}
	if ref == "" {
		return "", common.ErrorNotFound
	}

	if n, err := strconv.Atoi(ref); err == nil {
		t, ok := a.listedTask(n)
		if !ok {
			return "", fmt.Errorf("no task #%d in the last listing", n)
		}
		return t.ID, nil
	}

	list, err := a.taskService.ListLocal(ctx, a.ownerID)
	if err != nil {
		return "", err
	}
	match := ""
	for _, t := range list {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", errAmbiguousID
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", common.ErrorNotFound
	}
	return match, nil
}

func (a *App) reportSaved(t *models.Task) {
	if !t.Synced {
		a.println("Saved locally, will sync when the server is reachable")
	}
}

// Add creates a task. The title may be given inline: add buy milk.
func (a *App) Add(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	title := strings.Join(args, " ")
	if title == "" {
		var err error
		if title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
			return err
		}
	}
	when, err := getSimpleText(a.reader, "Time (HH:MM)", a.out)
	if err != nil {
		return err
	}

	t, err := a.taskService.Add(ctx, a.ownerID, services.NewTask{Title: title, ScheduledTime: when})
	if err != nil {
		return err
	}
	a.println("Added:", describeTask(t))
	a.reportSaved(t)
	return nil
}

// Edit changes the title and time of a task. Empty answers keep the
// current values.
func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.resolveID(ctx, args)
	if err != nil {
		return err
	}
	cur, err := a.taskService.Get(ctx, a.ownerID, id)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", cur.Title), a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = cur.Title
	}
	when, err := getSimpleText(a.reader, fmt.Sprintf("Time [%s]", cur.ScheduledTime), a.out)
	if err != nil {
		return err
	}
	if when == "" {
		when = cur.ScheduledTime
	}

	t, err := a.taskService.Edit(ctx, a.ownerID, id, title, when)
	if err != nil {
		return err
	}
	a.println("Updated:", describeTask(t))
	a.reportSaved(t)
	return nil
}

// Done toggles the done flag of a task.
func (a *App) Done(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.resolveID(ctx, args)
	if err != nil {
		return err
	}

	ask := func(q string) bool { return confirm(a.reader, q, a.out) }
	t, err := a.taskService.ToggleDone(ctx, a.ownerID, id, ask)
	if errors.Is(err, services.ErrConfirmationRequired) {
		a.println("Left unchanged")
		return nil
	}
	if err != nil {
		return err
	}
	if t.Done {
		a.println("Completed:", t.Title)
	} else {
		a.println("Reopened:", t.Title)
	}
	a.reportSaved(t)
	return nil
}

// Delete removes a task that is not done.
func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.resolveID(ctx, args)
	if err != nil {
		return err
	}
	if err := a.taskService.Delete(ctx, a.ownerID, id); err != nil {
		return err
	}
	a.setLastList(nil)
	a.println("Deleted")
	return nil
}

// List prints the user's tasks sorted by time. Unsynced tasks carry a star.
func (a *App) List(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	list, err := a.taskService.List(ctx, a.ownerID)
	if err != nil {
		return err
	}
	a.setLastList(list)

	if len(list) == 0 {
		a.println("No tasks")
		return nil
	}
	for i, t := range list {
		a.println(formatTask(i+1, t))
	}
	return nil
}

func (a *App) replay(ctx context.Context) {
	report, err := a.taskService.Sync(ctx)
	if err != nil {
		a.log.Warn(ctx, "replay failed", "error", err)
		return
	}
	if report.Synced > 0 {
		a.printf("%d tasks synchronized\n", report.Synced)
	}
}

// Sync pushes pending tasks now.
func (a *App) Sync(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	report, err := a.taskService.Sync(ctx)
	if errors.Is(err, syncer.ErrReplayInProgress) {
		a.println("Sync already running")
		return nil
	}
	if err != nil {
		return err
	}
	if report.Pending == 0 {
		a.println("Everything is synchronized")
		return nil
	}
	a.printf("%d of %d pending tasks synchronized (%d failed, %d skipped)\n",
		report.Synced, report.Pending, report.Failed, report.Skipped)
	return nil
}

// Stats prints completion analytics and, when online, login analytics.
func (a *App) Stats(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	st, err := a.taskService.Stats(ctx, a.ownerID)
	if err != nil {
		return err
	}
	a.printf("Tasks: %d total, %d completed, %d pending, %d unsynced\n",
		st.Total, st.Completed, st.Pending, st.Unsynced)
	a.printf("Completion: %.0f%%\n", st.CompletionRatio()*100)

	ls, err := a.reportService.LoginStats(ctx)
	if errors.Is(err, services.ErrOffline) {
		a.println("Login statistics need a connection")
		return nil
	}
	if err != nil {
		return err
	}
	last := "never"
	if ls.LastLogin > 0 {
		last = time.UnixMilli(ls.LastLogin).Format(time.DateTime)
	}
	a.printf("Logins: %d total, %d this week, last %s\n", ls.TotalLogins, ls.WeeklyLogins, last)
	return nil
}

// Calendar prints the "add to Google Calendar" link of a task for today and
// publishes the event when calendar credentials are configured.
func (a *App) Calendar(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.resolveID(ctx, args)
	if err != nil {
		return err
	}
	t, err := a.taskService.Get(ctx, a.ownerID, id)
	if err != nil {
		return err
	}

	today := a.now()
	link, err := calendar.TemplateURL(t, today)
	if err != nil {
		return err
	}
	a.println(link)

	if a.publisher == nil {
		return nil
	}
	ev, err := a.publisher.Publish(ctx, t, today)
	if err != nil {
		return fmt.Errorf("calendar publish failed: %w", err)
	}
	a.println("Published to calendar:", ev.HtmlLink)
	return nil
}

// Export asks the server for a downloadable snapshot of all tasks. With a
// file argument the snapshot is also saved locally.
func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	resp, err := a.reportService.Export(ctx)
	if err != nil {
		return err
	}
	a.println("Export ready:", resp.URL)
	a.printf("Link valid until %s\n", time.UnixMilli(resp.ExpiresAt).Format(time.DateTime))

	if len(args) == 0 {
		return nil
	}
	n, err := downloadExport(ctx, resp.URL, args[0])
	if err != nil {
		return fmt.Errorf("export download failed: %w", err)
	}
	a.printf("Saved %d bytes to %s\n", n, args[0])
	return nil
}
