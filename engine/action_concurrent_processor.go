// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"

	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/persistence/data_models"
)

type actionConcurrentProcessor struct {
	rootCtx           context.Context
	cfg               config.Config
	taskToProcessChan chan data_models.ScheduledActionInfo
	executor          ActionExecutor
	logger            log.Logger
}

func NewActionConcurrentProcessor(
	ctx context.Context, cfg config.Config, executor ActionExecutor, logger log.Logger,
) ActionProcessor {
	bufferSize := cfg.AsyncService.Sweep.ProcessorBufferSize
	return &actionConcurrentProcessor{
		rootCtx:           ctx,
		cfg:               cfg,
		taskToProcessChan: make(chan data_models.ScheduledActionInfo, bufferSize),
		executor:          executor,
		logger:            logger,
	}
}

func (w *actionConcurrentProcessor) Stop(context.Context) error {
	return nil
}

func (w *actionConcurrentProcessor) GetTasksToProcessChan() chan<- data_models.ScheduledActionInfo {
	return w.taskToProcessChan
}

func (w *actionConcurrentProcessor) Start() error {
	concurrency := w.cfg.AsyncService.Sweep.ProcessorConcurrency

	for i := 0; i < concurrency; i++ {
		go func() {
			for {
				select {
				case <-w.rootCtx.Done():
					return
				case action, ok := <-w.taskToProcessChan:
					if !ok {
						return
					}

					err := w.executor.ExecuteDueAction(w.rootCtx, action)
					if err != nil {
						// an error here is a store/internal failure, not a
						// delivery failure: the action is still PENDING or
						// IN_PROGRESS and the next sweep picks it up again
						w.logger.Warn("failed to process due action, waiting for next sweep",
							tag.Error(err),
							tag.ActionId(action.ActionId))
					}
				}
			}
		}()
	}
	return nil
}
