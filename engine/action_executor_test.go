// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/clock"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/persistence/data_models"
)

type capturingMessageSink struct {
	sent    []EmailMessage
	failErr error
}

func (s *capturingMessageSink) SendEmail(_ context.Context, message EmailMessage) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.sent = append(s.sent, message)
	return nil
}

type capturingTaskSink struct {
	created []ProspectTask
}

func (s *capturingTaskSink) CreateTask(_ context.Context, task ProspectTask) error {
	s.created = append(s.created, task)
	return nil
}

type executorTestEnv struct {
	store       *fakeAutomationStore
	messageSink *capturingMessageSink
	taskSink    *capturingTaskSink
	timeSource  *clock.ManualTimeSource
	notifier    *capturingNotifier
	matcher     TriggerMatcher
	executor    ActionExecutor
}

func newExecutorTestEnv(now time.Time) *executorTestEnv {
	cfg := config.Config{}
	cfg.AsyncService.Retry = config.RetryConfig{
		BackoffInterval: time.Hour,
		MaximumAttempts: 3,
	}

	logger := log.NewDevelopmentLogger()
	env := &executorTestEnv{
		store:       newFakeAutomationStore(),
		messageSink: &capturingMessageSink{},
		taskSink:    &capturingTaskSink{},
		timeSource:  clock.NewManualTimeSource(now),
		notifier:    &capturingNotifier{},
	}
	env.matcher = NewTriggerMatcher(env.store, env.notifier, logger)
	env.executor = NewActionExecutor(
		cfg, env.store, env.matcher, env.messageSink, env.taskSink, env.timeSource, logger)

	env.store.addProspect(data_models.ProspectContext{
		ProspectId:         "prospect-1",
		FirstName:          "Marie",
		LastName:           "Martin",
		Email:              ptr.Any("marie.martin@example.fr"),
		Status:             "Devis Envoyé",
		CommercialId:       "commercial-1",
		CommercialFullName: "Jean Dupont",
		CommercialEmail:    "jean.dupont@premunia.fr",
	})
	env.store.addTemplate(apis.EmailTemplate{
		TemplateId: "tpl-relance-devis",
		Name:       "Relance Devis",
		Subject:    "Votre devis mutuelle senior - {{prospect.firstName}}",
		Body:       "Bonjour {{prospect.firstName}},\nCordialement,\n{{commercial.fullName}}",
	})
	return env
}

// startDevisInstance runs the matcher on a Devis Envoyé transition and
// returns the materialized actions ordered by executionOrder
func (env *executorTestEnv) startDevisInstance(t *testing.T, occurredAt time.Time) []fakeAction {
	env.store.addSequence(devisSequence())
	err := env.matcher.ProcessStateChangeEvent(context.Background(), apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "Nouveau",
		NewStatus:      "Devis Envoyé",
		OccurredAt:     occurredAt,
	})
	assert.NoError(t, err)
	instance := env.store.pendingInstanceOf("prospect-1", "seq-relance-devis")
	return env.store.actionsOfInstance(instance.InstanceId)
}

func TestExecutorSendEmailHappyPath(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(now)
	actions := env.startDevisInstance(t, now)

	err := env.executor.ExecuteDueAction(context.Background(), actions[0].ScheduledActionInfo)
	assert.NoError(t, err)

	assert.Equal(t, 1, len(env.messageSink.sent))
	sent := env.messageSink.sent[0]
	assert.Equal(t, "marie.martin@example.fr", sent.To)
	assert.Equal(t, "Votre devis mutuelle senior - Marie", sent.Subject)
	assert.Contains(t, sent.Body, "Bonjour Marie")
	assert.Contains(t, sent.Body, "Jean Dupont")

	executed := env.store.getAction(actions[0].ActionId)
	assert.Equal(t, apis.ActionStatusExecuted, executed.Status)
	assert.Equal(t, "Email envoyé avec succès", executed.ResultMessage)
	assert.Equal(t, int32(1), executed.AttemptCount)
}

func TestExecutorCreateTaskHappyPath(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(now)
	actions := env.startDevisInstance(t, now)

	err := env.executor.ExecuteDueAction(context.Background(), actions[1].ScheduledActionInfo)
	assert.NoError(t, err)

	assert.Equal(t, 1, len(env.taskSink.created))
	assert.Equal(t, "commercial-1", env.taskSink.created[0].CommercialId)
	assert.Equal(t, "Appel de relance pour le devis", env.taskSink.created[0].Description)
	assert.Equal(t, apis.ActionStatusExecuted, env.store.getAction(actions[1].ActionId).Status)
}

func TestExecutorInstanceCompletesAfterLastAction(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(now)
	actions := env.startDevisInstance(t, now)

	assert.NoError(t, env.executor.ExecuteDueAction(context.Background(), actions[0].ScheduledActionInfo))
	assert.Equal(t, apis.InstanceStatusPending, env.store.getInstance(actions[0].InstanceId).Status)

	assert.NoError(t, env.executor.ExecuteDueAction(context.Background(), actions[1].ScheduledActionInfo))
	assert.Equal(t, apis.InstanceStatusCompleted, env.store.getInstance(actions[0].InstanceId).Status)
}

func TestExecutorSkipsAlreadyClaimedAction(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(now)
	actions := env.startDevisInstance(t, now)

	claimed, err := env.store.ClaimScheduledAction(context.Background(), actions[0].ActionId)
	assert.NoError(t, err)
	assert.True(t, claimed)

	// second worker loses the claim race and must not deliver
	assert.NoError(t, env.executor.ExecuteDueAction(context.Background(), actions[0].ScheduledActionInfo))
	assert.Empty(t, env.messageSink.sent)
}

func TestExecutorMissingTemplateFailsTerminally(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(now)
	actions := env.startDevisInstance(t, now)

	action := actions[0].ScheduledActionInfo
	action.EmailTemplateId = ptr.Any("tpl-deleted")

	assert.NoError(t, env.executor.ExecuteDueAction(context.Background(), action))

	failed := env.store.getAction(action.ActionId)
	assert.Equal(t, apis.ActionStatusFailed, failed.Status)
	assert.Contains(t, failed.ResultMessage, "tpl-deleted")
	assert.Empty(t, env.messageSink.sent)
}

func TestExecutorTransientFailureBacksOff(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(now)
	actions := env.startDevisInstance(t, now)
	env.messageSink.failErr = NewTransientDeliveryError("smtp unavailable", fmt.Errorf("connection refused"))

	assert.NoError(t, env.executor.ExecuteDueAction(context.Background(), actions[0].ScheduledActionInfo))

	backedOff := env.store.getAction(actions[0].ActionId)
	assert.Equal(t, apis.ActionStatusPending, backedOff.Status)
	assert.Equal(t, int32(1), backedOff.AttemptCount)
	assert.Equal(t, now.Add(time.Hour), backedOff.DueAt)
}

func TestExecutorFailsAfterMaximumAttempts(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(now)
	actions := env.startDevisInstance(t, now)
	env.messageSink.failErr = NewTransientDeliveryError("smtp unavailable", nil)

	action := actions[0].ScheduledActionInfo
	for attempt := 1; attempt <= 3; attempt++ {
		assert.NoError(t, env.executor.ExecuteDueAction(context.Background(), action))
		action = env.store.getAction(action.ActionId).ScheduledActionInfo
	}

	failed := env.store.getAction(actions[0].ActionId)
	assert.Equal(t, apis.ActionStatusFailed, failed.Status)
	assert.Equal(t, int32(3), failed.AttemptCount)
	assert.Contains(t, failed.ResultMessage, "3 tentatives")
}

func TestExecutorUpdateProspectStatusLoopsBackIntoMatcher(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(now)

	// a status-updating sequence whose target triggers a second sequence
	env.store.addSequence(apis.SequenceDefinition{
		SequenceId:    "seq-nouveau-prospect",
		Name:          "Séquence Nouveau Prospect",
		TriggerStatus: "Nouveau",
		IsActive:      true,
		Steps: []apis.SequenceStep{
			{
				StepId:         "step-nouveau-1",
				ExecutionOrder: 1,
				DelayDays:      7,
				ActionKind:     apis.ActionKindUpdateProspectStatus,
				TargetStatus:   ptr.Any("À Contacter"),
			},
		},
	})
	env.store.addSequence(apis.SequenceDefinition{
		SequenceId:    "seq-a-contacter",
		Name:          "Relance À Contacter",
		TriggerStatus: "À Contacter",
		IsActive:      true,
		Steps: []apis.SequenceStep{
			{
				StepId:          "step-contacter-1",
				ExecutionOrder:  1,
				DelayDays:       0,
				ActionKind:      apis.ActionKindCreateTask,
				TaskDescription: ptr.Any("Contacter {{prospect.firstName}} {{prospect.lastName}}"),
			},
		},
	})

	err := env.matcher.ProcessStateChangeEvent(context.Background(), apis.StateChangeEvent{
		ProspectId:     "prospect-1",
		PreviousStatus: "",
		NewStatus:      "Nouveau",
		OccurredAt:     now,
	})
	assert.NoError(t, err)

	instance := env.store.pendingInstanceOf("prospect-1", "seq-nouveau-prospect")
	actions := env.store.actionsOfInstance(instance.InstanceId)
	assert.NoError(t, env.executor.ExecuteDueAction(context.Background(), actions[0].ScheduledActionInfo))

	// the status write happened and the loopback started the second sequence
	prospectResp, err := env.store.GetProspectContext(context.Background(), "prospect-1")
	assert.NoError(t, err)
	assert.Equal(t, "À Contacter", prospectResp.Prospect.Status)
	assert.NotNil(t, env.store.pendingInstanceOf("prospect-1", "seq-a-contacter"))

	executed := env.store.getAction(actions[0].ActionId)
	assert.Equal(t, apis.ActionStatusExecuted, executed.Status)
	assert.Equal(t, "Statut mis à jour vers À Contacter", executed.ResultMessage)
}

// the end-to-end "Relance Devis" scenario: quote sent, five days pass, the
// reminder email goes out with the prospect's and commercial's names filled in
func TestRelanceDevisScenario(t *testing.T) {
	startedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := newExecutorTestEnv(startedAt)
	actions := env.startDevisInstance(t, startedAt)

	// nothing is due before J+5
	dueResp, err := env.store.GetDueScheduledActions(context.Background(),
		data_models.GetDueScheduledActionsRequest{AsOf: startedAt.Add(4 * 24 * time.Hour), PageSize: 100})
	assert.NoError(t, err)
	assert.Empty(t, dueResp.Actions)

	// at J+5 the email step is due, the J+10 task step is not
	dueResp, err = env.store.GetDueScheduledActions(context.Background(),
		data_models.GetDueScheduledActionsRequest{AsOf: startedAt.Add(5 * 24 * time.Hour), PageSize: 100})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(dueResp.Actions))
	assert.Equal(t, actions[0].ActionId, dueResp.Actions[0].ActionId)

	assert.NoError(t, env.executor.ExecuteDueAction(context.Background(), dueResp.Actions[0]))
	assert.Equal(t, 1, len(env.messageSink.sent))
	assert.Equal(t, "Votre devis mutuelle senior - Marie", env.messageSink.sent[0].Subject)
}
