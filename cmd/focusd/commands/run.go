package commands

import (
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"focusd/internal/config"
	"focusd/internal/scheduler"
	"focusd/internal/server"
)

func newRunCommand() *cobra.Command {
	var serve bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the background scheduler",
		Long: `Run the background scheduler until interrupted. Each tick re-evaluates the
persisted session, so milestones and completions fire even if the process
was down when the threshold passed. With the server enabled, a local HTTP
and websocket API exposes the live session to other clients.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := scheduler.New(rt.ctrl, rt.cfg.Scheduler.Interval, rt.cfg.Scheduler.MaxBackoff)

			if serve || rt.cfg.Server.Enabled {
				srv := server.New(rt.ctrl)
				httpSrv := &http.Server{
					Addr:    rt.cfg.Server.Listen,
					Handler: srv.Handler(),
				}
				go func() {
					log.Printf("run: status server listening on %s", rt.cfg.Server.Listen)
					if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Printf("run: status server: %v", err)
					}
				}()
				defer httpSrv.Close()
			}

			// Config edits take effect without restarting; only the cadence is
			// live-reloadable.
			watchPath := configPath
			if watchPath == "" {
				watchPath = config.DefaultPath()
			}
			if watchPath != "" {
				go func() {
					err := scheduler.WatchConfig(ctx, watchPath, func(cfg *config.Config) {
						runner.SetInterval(cfg.Scheduler.Interval)
					})
					if err != nil {
						log.Printf("run: config watch unavailable: %v", err)
					}
				}()
			}

			log.Printf("run: scheduler started, interval %v", rt.cfg.Scheduler.Interval)
			runner.Run(ctx)
			return nil
		},
	}

	cmd.Flags().BoolVar(&serve, "serve", false, "enable the status server even if disabled in config")
	return cmd
}
