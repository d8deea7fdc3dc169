// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/persistence"
	"github.com/premunia/automation/persistence/data_models"
)

type sweepQueueImpl struct {
	rootCtx context.Context
	cfg     config.Config
	store   persistence.AutomationStore
	logger  log.Logger

	processor ActionProcessor

	// the timer for the next poll of due actions
	nextPollTimer TimerGate

	// the channel to receive wake-up triggers after new actions were
	// materialized, so zero-delay steps don't wait a full poll interval
	triggeredPollingChan chan apis.NotifyDueActionsRequest
}

func NewSweepQueue(
	rootCtx context.Context, cfg config.Config, store persistence.AutomationStore,
	processor ActionProcessor, logger log.Logger,
) SweepQueue {
	sweepCfg := cfg.AsyncService.Sweep

	return &sweepQueueImpl{
		rootCtx:   rootCtx,
		cfg:       cfg,
		store:     store,
		logger:    logger,
		processor: processor,

		nextPollTimer:        NewLocalTimerGate(logger),
		triggeredPollingChan: make(chan apis.NotifyDueActionsRequest, sweepCfg.ProcessorBufferSize),
	}
}

func (w *sweepQueueImpl) Stop(ctx context.Context) error {
	// close timer to prevent goroutine leakage
	w.nextPollTimer.Close()
	return nil
}

func (w *sweepQueueImpl) TriggerPolling(request apis.NotifyDueActionsRequest) {
	w.triggeredPollingChan <- request
}

func (w *sweepQueueImpl) Start() error {
	w.nextPollTimer.Update(time.Now()) // fire immediately to make the first poll

	go func() {
		for {
			select {
			case <-w.nextPollTimer.FireChan():
				w.pollAndDispatchAndPrepareNext()
			case req, ok := <-w.triggeredPollingChan:
				if ok {
					// drain the remaining triggers, one poll covers them all
					w.drainAllNotifyRequests()
					w.logger.Debug("sweep woken up by notification", tag.Message(req.Reason))
					w.pollAndDispatchAndPrepareNext()
				}
			case <-w.rootCtx.Done():
				w.logger.Info("sweep queue is being closed")
				return
			}
		}
	}()
	return nil
}

func (w *sweepQueueImpl) getNextPollTime(interval, jitter time.Duration) time.Time {
	jitterD := time.Duration(rand.Int63n(int64(jitter)))
	return time.Now().Add(interval).Add(jitterD)
}

func (w *sweepQueueImpl) pollAndDispatchAndPrepareNext() {
	sweepCfg := w.cfg.AsyncService.Sweep
	w.nextPollTimer.Update(w.getNextPollTime(sweepCfg.MaxPollInterval, sweepCfg.IntervalJitter))

	resp, err := w.store.GetDueScheduledActions(
		w.rootCtx, data_models.GetDueScheduledActionsRequest{
			AsOf:     time.Now(),
			PageSize: sweepCfg.PollPageSize,
		})

	if err != nil {
		w.logger.Error("failed at loading due scheduled actions, will retry", tag.Error(err))
		// schedule an earlier next poll
		w.nextPollTimer.Update(w.getNextPollTime(0, sweepCfg.IntervalJitter))
		return
	}

	for _, action := range resp.Actions {
		w.processor.GetTasksToProcessChan() <- action
	}
	if len(resp.Actions) == int(sweepCfg.PollPageSize) {
		// a full page likely means there are more due actions behind it
		w.nextPollTimer.Update(w.getNextPollTime(0, sweepCfg.IntervalJitter))
	}
}

func (w *sweepQueueImpl) drainAllNotifyRequests() {
	for len(w.triggeredPollingChan) > 0 {
		<-w.triggeredPollingChan
	}
}
