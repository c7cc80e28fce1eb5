package main

import (
	"context"
	"log"
	"time"

	"boltfarm/internal/datastore"
	"boltfarm/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type SweepJob struct {
	db           *bun.DB
	serviceSweep *services.ServiceSweep
}

func NewSweepJob(container *do.Injector) (*SweepJob, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	serviceSweep, err := do.Invoke[*services.ServiceSweep](container)
	if err != nil {
		return nil, err
	}

	return &SweepJob{db, serviceSweep}, nil
}

// Start registers the sweep on the schedule from the config table,
// falling back to hourly when unset.
func (j *SweepJob) Start(cronRunner *cron.Cron) {
	schedule := services.CRONJOB_TIME_SWEEP_DEFAULT

	timeline, err := datastore.GetConfigByKey(context.Background(), j.db, services.CONFIG_CRONJOB_TIME_SWEEP)
	if err != nil {
		log.Println("load sweep schedule:", err)
	}
	if timeline != nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err = cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Sweep Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
}

func (j *SweepJob) runScheduledTask() {
	ctx := context.Background()
	log.Println("Start sweeping active assets ...")

	report, err := j.serviceSweep.SweepAllAssets(ctx)
	if err != nil {
		log.Println("sweep failed:", err)
		return
	}

	log.Println(
		"Sweep done:",
		"accounts:", report.AccountsUpdated,
		"assets:", report.AssetsProcessed,
		"failed:", report.AccountsFailed,
		"took:", report.Duration,
	)
}
