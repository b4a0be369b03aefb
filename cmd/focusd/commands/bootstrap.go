package commands

import (
	"context"
	"fmt"

	"focusd/internal/alarm"
	"focusd/internal/config"
	"focusd/internal/notify"
	"focusd/internal/session"
	"focusd/internal/store"
)

// runtime bundles the wired application: config, storage, and the session
// controller with its feedback chain.
type runtime struct {
	cfg    *config.Config
	store  *store.Store
	ctrl   *session.Controller
	engine *alarm.Engine
}

// completionAlarm adapts the alarm engine to the controller's narrower view
// of it.
type completionAlarm struct {
	engine *alarm.Engine
}

func (a completionAlarm) PlayCompletion(ctx context.Context) bool {
	return a.engine.PlayCompletion(ctx).AnySucceeded()
}

func (a completionAlarm) Stop() {
	a.engine.Stop()
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	path := dbPath
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var notifier notify.Notifier = notify.New()
	if !cfg.Notifications.Enabled {
		notifier = notify.NewNoop()
	}

	engine := alarm.NewEngine(notifier, alarm.Options{
		SoundPath:     cfg.Alarm.Sound,
		Volume:        cfg.Alarm.Volume,
		HapticCommand: cfg.Alarm.HapticCommand,
		AutoStop:      cfg.Alarm.AutoStop,
	})

	ctrl := session.NewController(session.Deps{
		Repo:       session.NewRepository(s),
		Notifier:   notifier,
		Alarm:      completionAlarm{engine: engine},
		Activities: s,
		History:    s,
	})

	return &runtime{
		cfg:    cfg,
		store:  s,
		ctrl:   ctrl,
		engine: engine,
	}, nil
}

func (r *runtime) Close() {
	r.store.Close()
}
