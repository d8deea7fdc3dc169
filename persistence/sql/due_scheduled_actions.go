// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"context"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/persistence/data_models"
)

func (p sqlAutomationStoreImpl) GetDueScheduledActions(
	ctx context.Context, request data_models.GetDueScheduledActionsRequest,
) (*data_models.GetDueScheduledActionsResponse, error) {
	rows, err := p.session.SelectDueScheduledActions(ctx, request.AsOf, request.PageSize)
	if err != nil {
		return nil, err
	}

	var actions []data_models.ScheduledActionInfo
	for _, row := range rows {
		actions = append(actions, data_models.ScheduledActionInfo{
			ActionId:        row.ActionId,
			InstanceId:      row.InstanceId,
			StepId:          row.StepId,
			ProspectId:      row.ProspectId,
			SequenceId:      row.SequenceId,
			DueAt:           row.DueAt,
			Status:          apis.ScheduledActionStatus(row.Status),
			AttemptCount:    row.AttemptCount,
			ExecutionOrder:  row.ExecutionOrder,
			ActionKind:      apis.ActionKind(row.ActionKind),
			EmailTemplateId: nullStringToPtr(row.EmailTemplateId),
			TargetStatus:    nullStringToPtr(row.TargetStatus),
			TaskDescription: nullStringToPtr(row.TaskDescription),
		})
	}
	return &data_models.GetDueScheduledActionsResponse{
		Actions: actions,
	}, nil
}

func (p sqlAutomationStoreImpl) ClaimScheduledAction(
	ctx context.Context, actionId string,
) (bool, error) {
	result, err := p.session.UpdateScheduledActionStatusIfStatus(
		ctx, actionId,
		string(apis.ActionStatusPending), string(apis.ActionStatusInProgress),
		nil, nil)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
