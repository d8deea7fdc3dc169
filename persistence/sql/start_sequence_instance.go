// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"context"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/extensions"
	"github.com/premunia/automation/persistence/data_models"
)

func (p sqlAutomationStoreImpl) StartSequenceInstance(
	ctx context.Context, request data_models.StartSequenceInstanceRequest,
) (*data_models.StartSequenceInstanceResponse, error) {
	tx, err := p.session.StartTransaction(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := p.doStartSequenceInstanceTx(ctx, tx, request)
	if err != nil {
		p.rollbackOnError(tx)
		return nil, err
	}
	err = tx.Commit()
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (p sqlAutomationStoreImpl) doStartSequenceInstanceTx(
	ctx context.Context, tx extensions.SQLTransaction, request data_models.StartSequenceInstanceRequest,
) (*data_models.StartSequenceInstanceResponse, error) {
	resp := &data_models.StartSequenceInstanceResponse{}

	// a retrigger supersedes the previous pending run of the same sequence;
	// the row lock serializes concurrent starts for the same pair
	prev, err := tx.SelectPendingInstanceForUpdate(ctx, request.ProspectId, request.SequenceId)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		cancelled, err := tx.UpdatePendingActionsStatusByInstance(
			ctx, prev.InstanceId, string(apis.ActionStatusCancelledBySystem))
		if err != nil {
			return nil, err
		}
		_, err = tx.UpdateInstanceStatus(ctx, prev.InstanceId, string(apis.InstanceStatusSuperseded))
		if err != nil {
			return nil, err
		}
		resp.SupersededInstanceId = ptr.Any(prev.InstanceId)
		resp.CancelledActionCount = int(cancelled)
	}

	_, err = tx.InsertSequenceInstance(ctx, extensions.SequenceInstanceRow{
		InstanceId: request.InstanceId,
		SequenceId: request.SequenceId,
		ProspectId: request.ProspectId,
		StartedAt:  request.StartedAt,
		Status:     string(apis.InstanceStatusPending),
	})
	if err != nil {
		return nil, err
	}

	for _, action := range request.Actions {
		_, err = tx.InsertScheduledAction(ctx, extensions.ScheduledActionRow{
			ActionId:   action.ActionId,
			InstanceId: request.InstanceId,
			StepId:     action.StepId,
			ProspectId: request.ProspectId,
			DueAt:      action.DueAt,
			Status:     string(apis.ActionStatusPending),
		})
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}
