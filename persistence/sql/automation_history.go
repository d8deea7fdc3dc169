// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"context"

	"github.com/premunia/automation/apis"
)

func (p sqlAutomationStoreImpl) GetAutomationHistory(
	ctx context.Context, prospectId string,
) ([]apis.ScheduledAction, error) {
	rows, err := p.session.SelectScheduledActionsByProspect(ctx, prospectId)
	if err != nil {
		return nil, err
	}

	var actions []apis.ScheduledAction
	for _, row := range rows {
		actions = append(actions, fromScheduledActionRow(row))
	}
	return actions, nil
}
