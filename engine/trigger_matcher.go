// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"time"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/common/uuid"
	"github.com/premunia/automation/persistence"
	"github.com/premunia/automation/persistence/data_models"
)

type triggerMatcherImpl struct {
	store    persistence.AutomationStore
	notifier DueActionNotifier
	logger   log.Logger
}

func NewTriggerMatcher(
	store persistence.AutomationStore, notifier DueActionNotifier, logger log.Logger,
) TriggerMatcher {
	return &triggerMatcherImpl{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func (t *triggerMatcherImpl) ProcessStateChangeEvent(
	ctx context.Context, event apis.StateChangeEvent,
) error {
	if event.PreviousStatus == event.NewStatus {
		// writes that don't change the status never trigger
		return nil
	}
	if event.OccurredAt.IsZero() {
		// events may omit occurredAt; due offsets must never anchor on the zero time
		event.OccurredAt = time.Now()
	}

	sequences, err := t.store.GetActiveSequencesByTriggerStatus(ctx, event.NewStatus)
	if err != nil {
		return err
	}
	if len(sequences) == 0 {
		return nil
	}

	startedAny := false
	for _, sequence := range sequences {
		err = t.startInstance(ctx, sequence, event)
		if err != nil {
			return err
		}
		startedAny = true
	}

	if startedAny {
		// zero-delay steps are due right away
		t.notifier.NotifyDueActions(apis.NotifyDueActionsRequest{
			Reason: "state change for prospect " + event.ProspectId,
		})
	}
	return nil
}

func (t *triggerMatcherImpl) startInstance(
	ctx context.Context, sequence apis.SequenceDefinition, event apis.StateChangeEvent,
) error {
	startedAt := event.OccurredAt
	instanceId := uuid.MustNewUUID()

	resp, err := t.store.StartSequenceInstance(ctx, data_models.StartSequenceInstanceRequest{
		InstanceId: instanceId,
		SequenceId: sequence.SequenceId,
		ProspectId: event.ProspectId,
		StartedAt:  startedAt,
		Actions:    MaterializeScheduledActions(sequence.Steps, startedAt),
	})
	if err != nil {
		return err
	}

	if resp.SupersededInstanceId != nil {
		t.logger.Info("superseded a prior pending instance on retrigger",
			tag.ProspectId(event.ProspectId),
			tag.SequenceId(sequence.SequenceId),
			tag.InstanceId(*resp.SupersededInstanceId))
	}
	t.logger.Info("started sequence instance",
		tag.ProspectId(event.ProspectId),
		tag.SequenceId(sequence.SequenceId),
		tag.SequenceName(sequence.Name),
		tag.InstanceId(instanceId),
		tag.ProspectStatus(event.NewStatus))
	return nil
}
