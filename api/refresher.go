/*
refresher.go - Scheduled re-evaluation of stored summaries

PURPOSE:
  Recognition is time-dependent: a round whose recognized date is in the
  future becomes recognized once "today" catches up, with no new input
  from the owner. The refresher walks every stored summary on a cron
  schedule, re-derives the time-dependent fields and writes back the
  ones that changed.

SEE ALSO:
  - recognition/simulator.go: RefreshSummary, the per-summary step
  - handlers.go: TriggerRefresh, the on-demand admin entry point
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/warp/recognition-engine/recognition"
	"github.com/warp/recognition-engine/store"
	rediscache "github.com/warp/recognition-engine/store/redis"
)

// Refresher re-evaluates stored summaries against the current date.
type Refresher struct {
	Store  store.SummaryStore
	Cache  *rediscache.Cache
	Logger *logrus.Logger

	// Now supplies the as-of date; tests pin it.
	Now func() recognition.Date

	cron *cron.Cron
}

// NewRefresher creates a refresher over the given store and cache.
func NewRefresher(st store.SummaryStore, cache *rediscache.Cache, logger *logrus.Logger) *Refresher {
	return &Refresher{
		Store:  st,
		Cache:  cache,
		Logger: logger,
		Now:    recognition.Today,
	}
}

// Start schedules RefreshAll on the given cron expression and begins the
// scheduler.
func (rf *Refresher) Start(spec string) error {
	rf.cron = cron.New()
	_, err := rf.cron.AddFunc(spec, func() {
		if _, err := rf.RefreshAll(context.Background()); err != nil {
			rf.Logger.WithError(err).Error("scheduled summary refresh failed")
		}
	})
	if err != nil {
		return err
	}
	rf.cron.Start()
	rf.Logger.WithField("cron", spec).Info("summary refresher started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (rf *Refresher) Stop() {
	if rf.cron != nil {
		<-rf.cron.Stop().Done()
	}
}

// RefreshAll re-evaluates every stored summary and saves the ones whose
// payload changed. It returns the number of summaries updated. A summary
// that fails to decode is logged and skipped rather than failing the run.
func (rf *Refresher) RefreshAll(ctx context.Context) (int, error) {
	asOf := rf.Now()

	owners, err := rf.Store.ListOwners(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, ownerID := range owners {
		rec, err := rf.Store.GetSummary(ctx, ownerID)
		if err != nil {
			return refreshed, err
		}
		if rec == nil {
			continue
		}

		var summary recognition.Summary
		if err := json.Unmarshal(rec.Payload, &summary); err != nil {
			rf.Logger.WithError(err).WithField("owner_id", ownerID).Warn("skipping undecodable stored summary")
			continue
		}

		updated := recognition.RefreshSummary(summary, asOf)
		payload, err := json.Marshal(updated)
		if err != nil {
			rf.Logger.WithError(err).WithField("owner_id", ownerID).Warn("skipping unencodable refreshed summary")
			continue
		}
		if bytes.Equal(payload, rec.Payload) {
			continue
		}

		if err := rf.Store.SaveSummary(ctx, ownerID, payload); err != nil {
			return refreshed, err
		}
		if err := rf.Cache.Invalidate(ctx, ownerID); err != nil {
			rf.Logger.WithError(err).WithField("owner_id", ownerID).Warn("summary cache invalidation failed")
		}
		refreshed++
	}

	rf.Logger.WithFields(logrus.Fields{
		"as_of":     asOf.String(),
		"owners":    len(owners),
		"refreshed": refreshed,
	}).Info("summary refresh complete")
	return refreshed, nil
}
