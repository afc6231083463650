package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"snapclash/internal/datastore"
	"snapclash/internal/interfaces"
	"snapclash/internal/pkg/locking"
	"snapclash/internal/services"
)

// WinnerJob periodically settles ended challenges that still lack a winner.
type WinnerJob struct {
	db         *bun.DB
	redisMutex redis.UniversalClient
}

func NewWinnerJob(db *bun.DB, redisMutex redis.UniversalClient) *WinnerJob {
	return &WinnerJob{
		db:         db,
		redisMutex: redisMutex,
	}
}

func (j *WinnerJob) Start(cronRunner *cron.Cron) {
	ctx := context.Background()
	configStore := datastore.NewConfigStore(j.db)

	schedule, err := configStore.ByKey(ctx, services.CONFIG_CRONJOB_TIME_WINNER)
	if err != nil {
		log.Println(err)
		return
	}
	if schedule == nil || schedule.Value == "" {
		log.Println("No winner schedule found")
		return
	}

	_, err = cronRunner.AddFunc(schedule.Value, j.runScheduledTask)
	log.Println("Winner Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule.Value, err)
}

func (j *WinnerJob) runScheduledTask() {
	ctx := context.Background()

	injector := do.New()
	do.ProvideValue(injector, datastore.NewChallengeStore(j.db))
	do.ProvideValue(injector, datastore.NewParticipationStore(j.db))
	do.ProvideValue[interfaces.Locker](injector, locking.NewLocker(j.redisMutex))

	serviceWinner, err := services.NewServiceWinner(injector)
	if err != nil {
		log.Println(err)
		return
	}

	log.Println("Start resolving ended challenges ...")
	resolved, err := serviceWinner.ResolveExpired(ctx)
	if err != nil {
		log.Println(err)
		return
	}
	log.Println("Resolved challenges:", resolved)
}
