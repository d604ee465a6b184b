package cron

import (
	"Slipboard/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine         *cron.Cron
	slipCommentJob *job.SlipCommentJob
	recountSpec    string
}

func NewCronManager(slipCommentJob *job.SlipCommentJob, recountSpec string) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		slipCommentJob: slipCommentJob,
		recountSpec:    recountSpec,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.recountSpec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.slipCommentJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待运行中的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
