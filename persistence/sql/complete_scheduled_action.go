// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"context"
	"fmt"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/persistence/data_models"
)

func (p sqlAutomationStoreImpl) CompleteScheduledAction(
	ctx context.Context, request data_models.CompleteScheduledActionRequest,
) error {
	if !request.Status.IsTerminal() {
		return fmt.Errorf("status %v is not terminal", request.Status)
	}
	result, err := p.session.UpdateScheduledActionStatusIfStatus(
		ctx, request.ActionId,
		string(apis.ActionStatusInProgress), string(request.Status),
		ptr.Any(request.ResultMessage), ptr.Any(request.AttemptCount))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// the claim was lost, e.g. the action was cancelled while executing
		return fmt.Errorf("action %v is no longer in progress", request.ActionId)
	}
	return nil
}

func (p sqlAutomationStoreImpl) BackoffScheduledAction(
	ctx context.Context, request data_models.BackoffScheduledActionRequest,
) error {
	result, err := p.session.UpdateScheduledActionForBackoff(
		ctx, request.ActionId, request.DueAt, request.AttemptCount)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("action %v is no longer in progress", request.ActionId)
	}
	return nil
}

func (p sqlAutomationStoreImpl) CompleteInstanceIfNoPendingActions(
	ctx context.Context, instanceId string,
) error {
	remaining, err := p.session.CountNonTerminalActionsByInstance(ctx, instanceId)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}
	_, err = p.session.UpdateInstanceStatusIfStatus(
		ctx, instanceId,
		string(apis.InstanceStatusPending), string(apis.InstanceStatusCompleted))
	return err
}
