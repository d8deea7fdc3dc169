// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/persistence"
	"github.com/premunia/automation/persistence/data_models"
)

type cancellationManagerImpl struct {
	store  persistence.AutomationStore
	logger log.Logger
}

func NewCancellationManager(store persistence.AutomationStore, logger log.Logger) CancellationManager {
	return &cancellationManagerImpl{
		store:  store,
		logger: logger,
	}
}

func (c *cancellationManagerImpl) CancelInstance(
	ctx context.Context, prospectId, sequenceId string, reason apis.CancelReason,
) (int, error) {
	resp, err := c.store.CancelPendingInstance(ctx, data_models.CancelPendingInstanceRequest{
		ProspectId: prospectId,
		SequenceId: sequenceId,
		Reason:     reason,
	})
	if err != nil {
		return 0, err
	}
	if resp.NotExists {
		return 0, fmt.Errorf("no pending instance of sequence %v for prospect %v", sequenceId, prospectId)
	}

	c.logger.Info("cancelled pending instance",
		tag.ProspectId(prospectId),
		tag.SequenceId(sequenceId),
		tag.InstanceId(resp.InstanceId),
		tag.Value(string(reason)))
	return resp.CancelledActionCount, nil
}
