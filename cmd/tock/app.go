package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amonks/tock/internal/config"
	"github.com/amonks/tock/internal/eventlog"
	"github.com/amonks/tock/internal/paths"
	"github.com/amonks/tock/internal/sched"
	"github.com/amonks/tock/internal/ui"
	"github.com/amonks/tock/task"
)

// app is everything a command needs: the loaded config, the engine over
// the three collections, and the queue that drives its timers.
type app struct {
	cfg         *config.Config
	engine      *task.Engine
	queue       *sched.Queue
	log         *eventlog.Logger
	stderr      io.Writer
	unsubscribe func()
}

func openApp() (*app, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		queue:  sched.NewQueue(),
		stderr: os.Stderr,
	}
	logger, err := eventlog.Open(cfg.LogPath())
	if err != nil {
		a.warn(fmt.Sprintf("diagnostic log disabled: %v", err))
		logger = eventlog.Discard()
	}
	a.log = logger
	store := task.OpenStore(cfg.Files(), logger)
	for _, r := range store.Recovered() {
		a.warn(recoveryMessage(r))
	}
	a.engine = task.NewEngine(store, task.EngineOptions{Scheduler: a.queue, Logger: logger})
	a.unsubscribe = a.engine.Subscribe(func(event task.Event) {
		if event.Kind == task.EventWarning {
			a.warn(fmt.Sprintf("could not save after %s: %v", event.Op, event.Err))
		}
	})
	return a, nil
}

func recoveryMessage(r task.Recovery) string {
	if r.MovedTo != "" {
		return fmt.Sprintf("%s could not be parsed and was moved to %s; starting with no %s tasks", r.Path, r.MovedTo, r.Collection)
	}
	return fmt.Sprintf("could not read %s (%v); %s tasks will not be saved", r.Path, r.Err, r.Collection)
}

func (a *app) warn(msg string) {
	fmt.Fprintln(a.stderr, ui.Warning(msg))
}

// Close stops every timer and saves all collections.
func (a *app) Close() error {
	a.unsubscribe()
	err := a.engine.Shutdown()
	if err != nil {
		err = fmt.Errorf("save on exit: %w", err)
	}
	return errors.Join(err, a.log.Close())
}

// withApp opens the app, runs fn, and always closes the app afterwards.
// A failed close turns a successful run into an error.
func withApp(fn func(*app) error) (err error) {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(a)
}
