// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"context"

	"go.uber.org/multierr"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/clock"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/engine"
	"github.com/premunia/automation/persistence"
)

type asyncService struct {
	rootCtx context.Context

	sweepQueue engine.SweepQueue
	processor  engine.ActionProcessor
	matcher    engine.TriggerMatcher

	// stateChangeMQ is nil unless pulsar is configured
	stateChangeMQ persistence.StateChangeMQ

	cfg    config.Config
	logger log.Logger
}

func NewAsyncServiceImpl(
	rootCtx context.Context, store persistence.AutomationStore, cfg config.Config, logger log.Logger,
) Service {
	notifier := newDueActionNotifierImpl()
	matcher := engine.NewTriggerMatcher(store, notifier, logger)

	executor := engine.NewActionExecutor(
		cfg, store, matcher,
		engine.NewLoggingMessageSink(logger),
		engine.NewLoggingTaskSink(logger),
		clock.NewRealTimeSource(), logger)

	processor := engine.NewActionConcurrentProcessor(rootCtx, cfg, executor, logger)
	sweepQueue := engine.NewSweepQueue(rootCtx, cfg, store, processor, logger)
	notifier.SetSweepQueue(sweepQueue)

	var stateChangeMQ persistence.StateChangeMQ
	if cfg.AsyncService.MessageQueue.Pulsar != nil {
		stateChangeMQ = persistence.NewPulsarStateChangeMQ(
			cfg, matcher.ProcessStateChangeEvent, logger)
	}

	return &asyncService{
		rootCtx: rootCtx,

		sweepQueue: sweepQueue,
		processor:  processor,
		matcher:    matcher,

		stateChangeMQ: stateChangeMQ,

		cfg:    cfg,
		logger: logger,
	}
}

func (a *asyncService) Start() error {
	err := a.processor.Start()
	if err != nil {
		a.logger.Error("fail to start action processor", tag.Error(err))
		return err
	}
	err = a.sweepQueue.Start()
	if err != nil {
		a.logger.Error("fail to start sweep queue", tag.Error(err))
		return err
	}
	if a.stateChangeMQ != nil {
		err = a.stateChangeMQ.Start()
		if err != nil {
			a.logger.Error("fail to start state change message queue", tag.Error(err))
			return err
		}
	}
	return nil
}

func (a *asyncService) NotifyPollingDueActions(request apis.NotifyDueActionsRequest) error {
	a.sweepQueue.TriggerPolling(request)
	return nil
}

func (a *asyncService) Stop(ctx context.Context) error {
	var mqErr error
	if a.stateChangeMQ != nil {
		mqErr = a.stateChangeMQ.Stop()
	}
	err1 := a.sweepQueue.Stop(ctx)
	err2 := a.processor.Stop(ctx)

	return multierr.Combine(mqErr, err1, err2)
}
