package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册并启动，表达式非法时不启动任何任务
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs (recount %q): %w", mgr.recountSpec, err)
	}
	log.Info("Cron jobs registered", "recount", mgr.recountSpec)
	mgr.Start()
	return nil
}
