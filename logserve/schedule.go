package main

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

var cleanScheduler gocron.Scheduler

func StartExpiredCleanSchedule(every time.Duration) {
	var err error
	cleanScheduler, err = gocron.NewScheduler()
	if err != nil {
		panic(err)
	}
	job, err := cleanScheduler.NewJob(gocron.DurationJob(every), gocron.NewTask(cleanTask))
	if err != nil {
		panic(err)
	}
	// each job has a unique id
	logrus.Infof("expired sweep job %s runs every %s", job.ID(), every)
	cleanScheduler.Start()
}

func StopScheduler() {
	if cleanScheduler == nil {
		return
	}
	if err := cleanScheduler.Shutdown(); err != nil {
		logrus.Errorf("scheduler shutdown: %v", err)
	}
}
