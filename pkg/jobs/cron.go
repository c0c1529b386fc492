// Package jobs schedules the background maintenance work: the nightly sweep
// that recomputes every company's aggregate fields.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/salesbridge/salesbridge/pkg/companies"
	"github.com/salesbridge/salesbridge/pkg/logger"
	"github.com/salesbridge/salesbridge/pkg/metrics"
)

// CronManager manages scheduled jobs
type CronManager struct {
	cron      *cron.Cron
	companies *companies.Service
	metrics   *metrics.Metrics
	log       logger.Logger
	schedule  string
}

// NewCronManager creates a new cron manager. schedule is a standard cron
// expression for the nightly metrics refresh.
func NewCronManager(companiesSvc *companies.Service, m *metrics.Metrics, log logger.Logger, schedule string) *CronManager {
	return &CronManager{
		cron:      cron.New(),
		companies: companiesSvc,
		metrics:   m,
		log:       log,
		schedule:  schedule,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	_, err := cm.cron.AddFunc(cm.schedule, func() {
		cm.log.Info("running company metrics refresh")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if cm.metrics != nil {
			cm.metrics.RecordMetricsRefresh()
		}

		if err := cm.companies.RefreshAll(ctx); err != nil {
			cm.log.Error("company metrics refresh finished with errors", "error", err)
			return
		}
		cm.log.Info("company metrics refresh completed")
	})
	return err
}

// Start begins running scheduled jobs
func (cm *CronManager) Start() {
	cm.cron.Start()
	cm.log.Info("cron jobs started", "schedule", cm.schedule)
}

// Stop halts the scheduler and waits for running jobs to finish
func (cm *CronManager) Stop() {
	ctx := cm.cron.Stop()
	<-ctx.Done()
	cm.log.Info("cron jobs stopped")
}
