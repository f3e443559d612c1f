package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/calendar"
	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dmitrijs2005/taskkeeper/internal/client/syncer"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
	gcal "google.golang.org/api/calendar/v3"
)

// taskService is the part of services.TaskService the commands use.
type taskService interface {
	Add(ctx context.Context, owner string, in services.NewTask) (*models.Task, error)
	Edit(ctx context.Context, owner, id, title, scheduledTime string) (*models.Task, error)
	ToggleDone(ctx context.Context, owner, id string, confirm services.ConfirmFunc) (*models.Task, error)
	Delete(ctx context.Context, owner, id string) error
	List(ctx context.Context, owner string) ([]*models.Task, error)
	ListLocal(ctx context.Context, owner string) ([]*models.Task, error)
	Get(ctx context.Context, owner, id string) (*models.Task, error)
	Sync(ctx context.Context) (syncer.ReplayReport, error)
	Stats(ctx context.Context, owner string) (services.Stats, error)
}

type reportService interface {
	LoginStats(ctx context.Context) (*api.GetStatsResponse, error)
	Export(ctx context.Context) (*api.ExportTasksResponse, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, t *models.Task, day time.Time) (*gcal.Event, error)
}

type prober interface {
	connectivity.Signal
	Check(ctx context.Context) bool
	Run(ctx context.Context)
}

type syncListener interface {
	Listen(ctx context.Context, sig connectivity.Signal, onReload func(syncer.Event)) (cancel func())
}

type App struct {
	config        *config.Config
	log           logging.Logger
	authService   services.AuthService
	taskService   taskService
	reportService reportService
	publisher     eventPublisher
	prober        prober
	listener      syncListener
	closers       []io.Closer

	ownerID    string
	userName   string
	stopListen func()

	// lastList is replaced by the reload on connectivity changes.
	listMu   sync.Mutex
	lastList []*models.Task

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

// NewApp opens the local database, connects the gRPC client and wires the
// sync engine behind a connectivity prober.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, logCloser := logging.NewFileLogger(logging.FileOptions{
		Path:       c.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Level:      slog.LevelInfo,
	})

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewTaskKeeperClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	p := connectivity.NewProber(apiClient, c.OnlineCheckInterval, log)
	gate := connectivity.NewGate(p, log)
	engine := syncer.NewEngine(db, apiClient, gate, log)

	a := &App{
		config:        c,
		log:           log.With("module", "cli"),
		authService:   services.NewAuthService(apiClient, db),
		taskService:   services.NewTaskService(engine, services.LocationFromConfig(c.Location), log),
		reportService: services.NewReportService(apiClient, p),
		prober:        p,
		listener:      engine,
		closers:       []io.Closer{db, logCloser},
		reader:        bufio.NewReader(os.Stdin),
		out:           stdout,
		now:           time.Now,
	}

	if c.CalendarEnabled() {
		pub, err := calendar.NewPublisher(ctx, c.CalendarCredentialsFile, c.CalendarTokenFile, c.CalendarID)
		if err != nil {
			a.log.Warn(ctx, "calendar publishing disabled", "error", err)
		} else {
			a.publisher = pub
		}
	}

	return a, nil
}

// Run probes the server once, logs in and starts the REPL. It blocks until
// the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close(ctx)

	printlnFn("Welcome to TaskKeeper CLI (type 'help' for commands)")

	a.prober.Check(ctx)
	go a.prober.Run(ctx)

	if err := a.Login(ctx); err != nil {
		printlnFn("Error:", err)
	}

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}

// Close stops listening for connectivity changes and releases the client,
// the database and the log file.
func (a *App) Close(ctx context.Context) {
	a.stopSync()
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "failed to close client", "error", err)
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.ownerID != ""
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// startSync replays pending tasks on every reconnect for the logged in user
// and reloads the task list on every connectivity change.
func (a *App) startSync(ctx context.Context) {
	a.stopSync()
	owner := a.ownerID
	a.stopListen = a.listener.Listen(ctx, a.prober, func(ev syncer.Event) {
		a.onConnectivityChange(ctx, owner, ev)
	})
}

func (a *App) stopSync() {
	if a.stopListen != nil {
		a.stopListen()
		a.stopListen = nil
	}
}

func (a *App) onConnectivityChange(ctx context.Context, owner string, ev syncer.Event) {
	a.reload(ctx, owner, ev.Online)

	if !ev.Online {
		a.println("Server unreachable, working offline")
		return
	}
	a.println("Server reachable, working online")
	if ev.Err == nil && ev.Report.Synced > 0 {
		a.printf("%d tasks synchronized\n", ev.Report.Synced)
	}
}

// reload refreshes the read path. Online it merges remote-only tasks into
// the local store; offline it reads the local store only.
func (a *App) reload(ctx context.Context, owner string, online bool) {
	var (
		list []*models.Task
		err  error
	)
	if online {
		list, err = a.taskService.List(ctx, owner)
	} else {
		list, err = a.taskService.ListLocal(ctx, owner)
	}
	if err != nil {
		a.log.Warn(ctx, "task reload failed", "online", online, "error", err)
		return
	}
	a.setLastList(list)
}

func (a *App) setLastList(list []*models.Task) {
	a.listMu.Lock()
	a.lastList = list
	a.listMu.Unlock()
}

// listedTask returns the n-th task (1-based) of the last listing.
func (a *App) listedTask(n int) (*models.Task, bool) {
	a.listMu.Lock()
	defer a.listMu.Unlock()
	if n < 1 || n > len(a.lastList) {
		return nil, false
	}
	return a.lastList[n-1], true
}

func (a *App) mode() string {
	if a.prober != nil && a.prober.IsOnline() {
		return "online"
	}
	return "offline"
}

// getStatus is the prompt badge: user, mode, not-done and unsynced counts.
func (a *App) getStatus(ctx context.Context) string {
	if !a.isLoggedIn() {
		return fmt.Sprintf("(%s)", a.mode())
	}
	st, err := a.taskService.Stats(ctx, a.ownerID)
	if err != nil {
		return fmt.Sprintf("(%s %s)", a.userName, a.mode())
	}
	return fmt.Sprintf("(%s %s | %d pending, %d unsynced)", a.userName, a.mode(), st.Pending, st.Unsynced)
}
