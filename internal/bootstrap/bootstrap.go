package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	cataloginadapter "bodysense/internal/modules/catalog/adapter/in"
	catalogoutadapter "bodysense/internal/modules/catalog/adapter/out"
	catalogin "bodysense/internal/modules/catalog/port/in"
	catalogservice "bodysense/internal/modules/catalog/service"
	catalogusecase "bodysense/internal/modules/catalog/usecase"
	historyinadapter "bodysense/internal/modules/history/adapter/in"
	historyoutadapter "bodysense/internal/modules/history/adapter/out"
	historyout "bodysense/internal/modules/history/port/out"
	historyservice "bodysense/internal/modules/history/service"
	historyusecase "bodysense/internal/modules/history/usecase"
	layoutinadapter "bodysense/internal/modules/layout/adapter/in"
	layoutoutadapter "bodysense/internal/modules/layout/adapter/out"
	layoutservice "bodysense/internal/modules/layout/service"
	layoutusecase "bodysense/internal/modules/layout/usecase"
	sessioninadapter "bodysense/internal/modules/session/adapter/in"
	sessionoutadapter "bodysense/internal/modules/session/adapter/out"
	"bodysense/internal/modules/session/domain"
	sessionin "bodysense/internal/modules/session/port/in"
	sessionservice "bodysense/internal/modules/session/service"
	sessionusecase "bodysense/internal/modules/session/usecase"
	"bodysense/internal/platform/clock"
	"bodysense/internal/platform/config"
	"bodysense/internal/platform/id"
	"bodysense/internal/platform/logging"
	uiapp "bodysense/internal/ui/app"
)

type closer interface{ Close() error }

type App struct {
	Config config.Config
	Logger *logging.Logger
	Clock  clock.Clock

	CatalogCLI cataloginadapter.CLIHandler
	LayoutCLI  layoutinadapter.CLIHandler
	HistoryCLI historyinadapter.CLIHandler
	SessionTUI sessioninadapter.TUIHandler

	session sessionin.Usecase
	catalog catalogin.Usecase
	closers []closer
}

// New wires every module against cfg. The caller owns logger; everything
// else is released by Close.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	app := &App{Config: cfg, Logger: logger, Clock: clock.System()}

	catalogSvc, err := catalogservice.NewCatalogService(ctx, catalogoutadapter.NewYAMLCatalogSource(cfg.Catalog.Path))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalogUC := catalogusecase.NewInteractor(catalogSvc)
	app.catalog = catalogUC

	kv, err := layoutoutadapter.NewSQLiteKVStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new layout store: %w", err)
	}
	app.closers = append(app.closers, kv)
	layoutUC := layoutusecase.NewInteractor(layoutservice.NewLayoutService(
		kv,
		layoutoutadapter.NewCatalogAdapter(catalogUC),
		logger,
	))
	if err := layoutUC.EnsureDefaults(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("initialize markers: %w", err)
	}

	runs, err := historyoutadapter.NewSQLiteRunStore(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new run store: %w", err)
	}
	app.closers = append(app.closers, runs)
	var journal historyout.Journal
	if cfg.History.Journal {
		journal = historyoutadapter.NewMarkdownJournal(cfg.JournalDir())
	}
	historyUC := historyusecase.NewInteractor(historyservice.NewHistoryService(id.UUID{}, runs, journal, logger))

	sessionSvc, err := sessionservice.NewSessionService(
		ctx,
		app.Clock,
		timingsFrom(cfg.Timings),
		sessionoutadapter.NewCatalogAdapter(catalogUC),
		sessionoutadapter.NewLayoutAdapter(layoutUC),
		sessionoutadapter.NewHistoryAdapter(historyUC),
		logger,
	)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new session: %w", err)
	}
	app.session = sessionusecase.NewInteractor(sessionSvc)

	app.CatalogCLI = cataloginadapter.NewCLIHandler(catalogUC)
	app.LayoutCLI = layoutinadapter.NewCLIHandler(layoutUC)
	app.HistoryCLI = historyinadapter.NewCLIHandler(historyUC)
	app.SessionTUI = sessioninadapter.NewTUIHandler(app.session)
	return app, nil
}

func timingsFrom(t config.TimingsConfig) domain.Timings {
	return domain.Timings{
		Seal:       t.Seal,
		Start:      t.Start,
		Massage:    t.Massage,
		ResumeSeal: t.ResumeSeal,
		Release:    t.Release,
		AutoStart:  t.AutoStart,
	}
}

// WatchCatalog reloads the override catalog whenever it changes and
// refreshes the session. It blocks until ctx is done and returns nil at once
// when no watchable catalog is configured.
func (a *App) WatchCatalog(ctx context.Context) error {
	if a.Config.Catalog.Path == "" || !a.Config.Catalog.Watch {
		return nil
	}
	logger := a.Logger.WithComponent("catalog-watch")
	watcher := catalogoutadapter.NewFileCatalogWatcher(a.Config.Catalog.Path)
	return watcher.Watch(ctx, func() {
		out, err := a.catalog.Reload(ctx)
		if err != nil {
			logger.Warn("catalog reload failed, keeping previous", "path", a.Config.Catalog.Path, "error", err.Error())
			return
		}
		a.session.Refresh(ctx)
		logger.Info("catalog reloaded", "version", out.Version, "exercises", len(out.Exercises))
	})
}

func (a *App) NewHub() *sessioninadapter.Hub {
	return sessioninadapter.NewHub(a.session, a.Clock, a.Config.Session.TickInterval, a.Logger)
}

func (a *App) NewRunner() *sessioninadapter.Runner {
	return sessioninadapter.NewRunner(a.session, a.Clock, a.Config.Session.TickInterval, a.Logger)
}

// Close releases the stores in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(app.SessionTUI, app.LayoutCLI, app.HistoryCLI, app.Config.Session.TickInterval)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
