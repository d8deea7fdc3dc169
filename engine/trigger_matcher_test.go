// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/persistence/data_models"
)

type capturingNotifier struct {
	notifyCount int
}

func (n *capturingNotifier) NotifyDueActions(apis.NotifyDueActionsRequest) {
	n.notifyCount++
}

func devisSequence() apis.SequenceDefinition {
	return apis.SequenceDefinition{
		SequenceId:    "seq-relance-devis",
		Name:          "Relance Devis J+5",
		TriggerStatus: "Devis Envoyé",
		IsActive:      true,
		Steps: []apis.SequenceStep{
			{
				StepId:          "step-devis-1",
				ExecutionOrder:  1,
				DelayDays:       5,
				ActionKind:      apis.ActionKindSendEmail,
				EmailTemplateId: ptr.Any("tpl-relance-devis"),
			},
			{
				StepId:          "step-devis-2",
				ExecutionOrder:  2,
				DelayDays:       10,
				ActionKind:      apis.ActionKindCreateTask,
				TaskDescription: ptr.Any("Appel de relance pour le devis"),
			},
		},
	}
}

func TestTriggerMatcherStartsInstanceOnMatchingStatus(t *testing.T) {
	store := newFakeAutomationStore()
	store.addSequence(devisSequence())
	notifier := &capturingNotifier{}
	matcher := NewTriggerMatcher(store, notifier, log.NewDevelopmentLogger())

	occurredAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	err := matcher.ProcessStateChangeEvent(context.Background(), apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "Nouveau",
		NewStatus:      "Devis Envoyé",
		OccurredAt:     occurredAt,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, notifier.notifyCount)

	instance := store.pendingInstanceOf("prospect-1", "seq-relance-devis")
	assert.NotNil(t, instance)

	actions := store.actionsOfInstance(instance.InstanceId)
	assert.Equal(t, 2, len(actions))
	assert.Equal(t, occurredAt.Add(5*24*time.Hour), actions[0].DueAt)
	assert.Equal(t, occurredAt.Add(10*24*time.Hour), actions[1].DueAt)
	assert.Equal(t, apis.ActionStatusPending, actions[0].Status)
}

func TestTriggerMatcherNoOpOnUnchangedStatus(t *testing.T) {
	store := newFakeAutomationStore()
	store.addSequence(devisSequence())
	notifier := &capturingNotifier{}
	matcher := NewTriggerMatcher(store, notifier, log.NewDevelopmentLogger())

	err := matcher.ProcessStateChangeEvent(context.Background(), apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "Devis Envoyé",
		NewStatus:      "Devis Envoyé",
		OccurredAt:     time.Now(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, notifier.notifyCount)
	assert.Nil(t, store.pendingInstanceOf("prospect-1", "seq-relance-devis"))
}

func TestTriggerMatcherIgnoresInactiveSequences(t *testing.T) {
	store := newFakeAutomationStore()
	inactive := devisSequence()
	inactive.IsActive = false
	store.addSequence(inactive)
	notifier := &capturingNotifier{}
	matcher := NewTriggerMatcher(store, notifier, log.NewDevelopmentLogger())

	err := matcher.ProcessStateChangeEvent(context.Background(), apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "Nouveau",
		NewStatus:      "Devis Envoyé",
		OccurredAt:     time.Now(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, notifier.notifyCount)
	assert.Nil(t, store.pendingInstanceOf("prospect-1", "seq-relance-devis"))
}

func TestTriggerMatcherRetriggerSupersedesPendingInstance(t *testing.T) {
	store := newFakeAutomationStore()
	store.addSequence(devisSequence())
	notifier := &capturingNotifier{}
	matcher := NewTriggerMatcher(store, notifier, log.NewDevelopmentLogger())

	event := apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "Nouveau",
		NewStatus:      "Devis Envoyé",
		OccurredAt:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, matcher.ProcessStateChangeEvent(context.Background(), event))
	first := store.pendingInstanceOf("prospect-1", "seq-relance-devis")

	// the prospect leaves and re-enters the trigger status
	event.PreviousStatus = "Relance Marketing"
	event.OccurredAt = event.OccurredAt.Add(48 * time.Hour)
	assert.NoError(t, matcher.ProcessStateChangeEvent(context.Background(), event))

	second := store.pendingInstanceOf("prospect-1", "seq-relance-devis")
	assert.NotEqual(t, first.InstanceId, second.InstanceId)
	assert.Equal(t, apis.InstanceStatusSuperseded, store.getInstance(first.InstanceId).Status)

	for _, action := range store.actionsOfInstance(first.InstanceId) {
		assert.Equal(t, apis.ActionStatusCancelledBySystem, action.Status)
	}
	for _, action := range store.actionsOfInstance(second.InstanceId) {
		assert.Equal(t, apis.ActionStatusPending, action.Status)
	}
}

func TestTriggerMatcherStartsAllMatchingSequences(t *testing.T) {
	store := newFakeAutomationStore()
	store.addSequence(devisSequence())
	other := devisSequence()
	other.SequenceId = "seq-relance-devis-bis"
	other.Name = "Relance Devis Bis"
	store.addSequence(other)
	notifier := &capturingNotifier{}
	matcher := NewTriggerMatcher(store, notifier, log.NewDevelopmentLogger())

	err := matcher.ProcessStateChangeEvent(context.Background(), apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "Nouveau",
		NewStatus:      "Devis Envoyé",
		OccurredAt:     time.Now(),
	})
	assert.NoError(t, err)
	assert.NotNil(t, store.pendingInstanceOf("prospect-1", "seq-relance-devis"))
	assert.NotNil(t, store.pendingInstanceOf("prospect-1", "seq-relance-devis-bis"))
}

func TestTriggerMatcherDefaultsMissingOccurredAt(t *testing.T) {
	store := newFakeAutomationStore()
	store.addSequence(devisSequence())
	matcher := NewTriggerMatcher(store, &capturingNotifier{}, log.NewDevelopmentLogger())

	before := time.Now()
	err := matcher.ProcessStateChangeEvent(context.Background(), apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "Nouveau",
		NewStatus:      "Devis Envoyé",
		// OccurredAt intentionally left zero
	})
	after := time.Now()
	assert.NoError(t, err)

	instance := store.pendingInstanceOf("prospect-1", "seq-relance-devis")
	assert.NotNil(t, instance)

	// due offsets anchor on receipt time, never on the zero time
	actions := store.actionsOfInstance(instance.InstanceId)
	assert.Equal(t, 2, len(actions))
	assert.False(t, actions[0].DueAt.Before(before.Add(5*24*time.Hour)))
	assert.False(t, actions[0].DueAt.After(after.Add(5*24*time.Hour)))
	assert.False(t, actions[1].DueAt.Before(before.Add(10*24*time.Hour)))
	assert.False(t, actions[1].DueAt.After(after.Add(10*24*time.Hour)))
}

func TestDueActionsSameDayStepsFollowExecutionOrder(t *testing.T) {
	store := newFakeAutomationStore()
	store.addSequence(apis.SequenceDefinition{
		SequenceId:    "seq-nouveau-prospect",
		Name:          "Séquence Nouveau Prospect",
		TriggerStatus: "Nouveau",
		IsActive:      true,
		Steps: []apis.SequenceStep{
			{
				StepId:          "step-nouveau-1",
				ExecutionOrder:  1,
				DelayDays:       0,
				ActionKind:      apis.ActionKindSendEmail,
				EmailTemplateId: ptr.Any("tpl-premier-contact"),
			},
			{
				StepId:          "step-nouveau-2",
				ExecutionOrder:  2,
				DelayDays:       0,
				ActionKind:      apis.ActionKindCreateTask,
				TaskDescription: ptr.Any("Premier appel de qualification"),
			},
		},
	})
	matcher := NewTriggerMatcher(store, &capturingNotifier{}, log.NewDevelopmentLogger())

	occurredAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	err := matcher.ProcessStateChangeEvent(context.Background(), apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "Perdu",
		NewStatus:      "Nouveau",
		OccurredAt:     occurredAt,
	})
	assert.NoError(t, err)

	// same due time, the step order breaks the tie
	resp, err := store.GetDueScheduledActions(context.Background(), data_models.GetDueScheduledActionsRequest{
		AsOf:     occurredAt,
		PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(resp.Actions))
	assert.Equal(t, "step-nouveau-1", resp.Actions[0].StepId)
	assert.Equal(t, "step-nouveau-2", resp.Actions[1].StepId)
}
