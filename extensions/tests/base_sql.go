// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package tests

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/common/uuid"
	"github.com/premunia/automation/persistence"
	"github.com/premunia/automation/persistence/data_models"
)

// testSQLAutomationStore drives a full sequence lifecycle through a real
// store: create definition, trigger an instance, sweep, claim, complete,
// supersede and cancel
func testSQLAutomationStore(ass *assert.Assertions, store persistence.AutomationStore) {
	ctx := context.Background()

	sequenceId := uuid.MustNewUUID()
	prospectId := fmt.Sprintf("test-prospect-%v", time.Now().UnixNano())

	emailStepId := uuid.MustNewUUID()
	taskStepId := uuid.MustNewUUID()
	err := store.CreateSequence(ctx, data_models.CreateSequenceRequest{
		SequenceId: sequenceId,
		Definition: apis.SequenceCreateRequest{
			Name:          "Relance Devis J+5",
			TriggerStatus: "Devis Envoyé",
			IsActive:      true,
			Steps: []apis.SequenceStep{
				{
					StepId:          emailStepId,
					ExecutionOrder:  1,
					DelayDays:       0,
					ActionKind:      apis.ActionKindSendEmail,
					EmailTemplateId: ptr.Any("tpl-relance-devis"),
				},
				{
					StepId:          taskStepId,
					ExecutionOrder:  2,
					DelayDays:       10,
					ActionKind:      apis.ActionKindCreateTask,
					TaskDescription: ptr.Any("Appel de relance pour le devis"),
				},
			},
		},
	})
	ass.Nil(err)

	descResp, err := store.DescribeSequence(ctx, sequenceId)
	ass.Nil(err)
	ass.False(descResp.NotExists)
	ass.Equal("Relance Devis J+5", descResp.Sequence.Name)
	ass.False(descResp.Sequence.CreatedAt.IsZero())
	ass.Equal(2, len(descResp.Sequence.Steps))
	ass.Equal(1, descResp.Sequence.Steps[0].ExecutionOrder)

	descResp, err = store.DescribeSequence(ctx, uuid.MustNewUUID())
	ass.Nil(err)
	ass.True(descResp.NotExists)

	matching, err := store.GetActiveSequencesByTriggerStatus(ctx, "Devis Envoyé")
	ass.Nil(err)
	ass.True(len(matching) >= 1)

	// start an instance with both actions materialized
	startedAt := time.Now().UTC().Truncate(time.Microsecond)
	instanceId := uuid.MustNewUUID()
	emailActionId := uuid.MustNewUUID()
	taskActionId := uuid.MustNewUUID()
	startResp, err := store.StartSequenceInstance(ctx, data_models.StartSequenceInstanceRequest{
		InstanceId: instanceId,
		SequenceId: sequenceId,
		ProspectId: prospectId,
		StartedAt:  startedAt,
		Actions: []data_models.MaterializedAction{
			{ActionId: emailActionId, StepId: emailStepId, DueAt: startedAt},
			{ActionId: taskActionId, StepId: taskStepId, DueAt: startedAt.Add(10 * 24 * time.Hour)},
		},
	})
	ass.Nil(err)
	ass.Nil(startResp.SupersededInstanceId)

	// only the zero-delay action is due
	dueResp, err := store.GetDueScheduledActions(ctx, data_models.GetDueScheduledActionsRequest{
		AsOf:     startedAt.Add(time.Hour),
		PageSize: 10,
	})
	ass.Nil(err)
	ass.Equal(1, len(dueResp.Actions))
	ass.Equal(emailActionId, dueResp.Actions[0].ActionId)
	ass.Equal(apis.ActionKindSendEmail, dueResp.Actions[0].ActionKind)

	// claim is exclusive
	claimed, err := store.ClaimScheduledAction(ctx, emailActionId)
	ass.Nil(err)
	ass.True(claimed)
	claimed, err = store.ClaimScheduledAction(ctx, emailActionId)
	ass.Nil(err)
	ass.False(claimed)

	err = store.CompleteScheduledAction(ctx, data_models.CompleteScheduledActionRequest{
		ActionId:      emailActionId,
		Status:        apis.ActionStatusExecuted,
		ResultMessage: "Email envoyé avec succès",
		AttemptCount:  1,
	})
	ass.Nil(err)

	// the task action is still pending, the instance must not complete
	err = store.CompleteInstanceIfNoPendingActions(ctx, instanceId)
	ass.Nil(err)

	history, err := store.GetAutomationHistory(ctx, prospectId)
	ass.Nil(err)
	ass.Equal(2, len(history))
	ass.Equal(apis.ActionStatusExecuted, history[0].Status)
	ass.Equal("Email envoyé avec succès", *history[0].ResultMessage)

	// a retrigger supersedes the pending instance
	secondInstanceId := uuid.MustNewUUID()
	secondStartedAt := startedAt.Add(48 * time.Hour)
	secondEmailActionId := uuid.MustNewUUID()
	secondTaskActionId := uuid.MustNewUUID()
	startResp, err = store.StartSequenceInstance(ctx, data_models.StartSequenceInstanceRequest{
		InstanceId: secondInstanceId,
		SequenceId: sequenceId,
		ProspectId: prospectId,
		StartedAt:  secondStartedAt,
		Actions: []data_models.MaterializedAction{
			{ActionId: secondEmailActionId, StepId: emailStepId, DueAt: secondStartedAt},
			{ActionId: secondTaskActionId, StepId: taskStepId, DueAt: secondStartedAt},
		},
	})
	ass.Nil(err)
	ass.NotNil(startResp.SupersededInstanceId)
	ass.Equal(instanceId, *startResp.SupersededInstanceId)
	ass.Equal(1, startResp.CancelledActionCount) // only the pending task action flipped

	// both actions share a due time, the step order breaks the tie
	dueResp, err = store.GetDueScheduledActions(ctx, data_models.GetDueScheduledActionsRequest{
		AsOf:     secondStartedAt.Add(time.Hour),
		PageSize: 10,
	})
	ass.Nil(err)
	ass.Equal(2, len(dueResp.Actions))
	ass.Equal(secondEmailActionId, dueResp.Actions[0].ActionId)
	ass.Equal(secondTaskActionId, dueResp.Actions[1].ActionId)

	// operator cancel of the new pending instance
	cancelResp, err := store.CancelPendingInstance(ctx, data_models.CancelPendingInstanceRequest{
		ProspectId: prospectId,
		SequenceId: sequenceId,
		Reason:     apis.CancelReasonUser,
	})
	ass.Nil(err)
	ass.False(cancelResp.NotExists)
	ass.Equal(secondInstanceId, cancelResp.InstanceId)
	ass.Equal(2, cancelResp.CancelledActionCount)

	cancelResp, err = store.CancelPendingInstance(ctx, data_models.CancelPendingInstanceRequest{
		ProspectId: prospectId,
		SequenceId: sequenceId,
		Reason:     apis.CancelReasonUser,
	})
	ass.Nil(err)
	ass.True(cancelResp.NotExists)

	// deactivate stops trigger matching
	err = store.UpdateSequenceIsActive(ctx, sequenceId, false)
	ass.Nil(err)
	matching, err = store.GetActiveSequencesByTriggerStatus(ctx, "Devis Envoyé")
	ass.Nil(err)
	for _, def := range matching {
		ass.NotEqual(sequenceId, def.SequenceId)
	}
}
