// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"context"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/extensions"
	"github.com/premunia/automation/persistence/data_models"
)

func (p sqlAutomationStoreImpl) CancelPendingInstance(
	ctx context.Context, request data_models.CancelPendingInstanceRequest,
) (*data_models.CancelPendingInstanceResponse, error) {
	tx, err := p.session.StartTransaction(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := p.doCancelPendingInstanceTx(ctx, tx, request)
	if err != nil || resp.NotExists {
		p.rollbackOnError(tx)
		return resp, err
	}
	err = tx.Commit()
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (p sqlAutomationStoreImpl) doCancelPendingInstanceTx(
	ctx context.Context, tx extensions.SQLTransaction, request data_models.CancelPendingInstanceRequest,
) (*data_models.CancelPendingInstanceResponse, error) {
	instance, err := tx.SelectPendingInstanceForUpdate(ctx, request.ProspectId, request.SequenceId)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return &data_models.CancelPendingInstanceResponse{
			NotExists: true,
		}, nil
	}

	actionStatus := apis.ActionStatusCancelledBySystem
	if request.Reason == apis.CancelReasonUser {
		actionStatus = apis.ActionStatusCancelledByUser
	}
	cancelled, err := tx.UpdatePendingActionsStatusByInstance(ctx, instance.InstanceId, string(actionStatus))
	if err != nil {
		return nil, err
	}
	_, err = tx.UpdateInstanceStatus(ctx, instance.InstanceId, string(apis.InstanceStatusCancelled))
	if err != nil {
		return nil, err
	}

	return &data_models.CancelPendingInstanceResponse{
		InstanceId:           instance.InstanceId,
		CancelledActionCount: int(cancelled),
	}, nil
}
