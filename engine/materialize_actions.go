// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"time"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/uuid"
	"github.com/premunia/automation/persistence/data_models"
)

// MaterializeScheduledActions turns every step of a sequence into one
// scheduled action, eagerly, at instance start. Due times are offsets from
// the instance start: dueAt = startedAt + delayDays*24h, so a zero-delay
// step is due immediately.
func MaterializeScheduledActions(
	steps []apis.SequenceStep, startedAt time.Time,
) []data_models.MaterializedAction {
	actions := make([]data_models.MaterializedAction, 0, len(steps))
	for _, step := range steps {
		actions = append(actions, data_models.MaterializedAction{
			ActionId: uuid.MustNewUUID(),
			StepId:   step.StepId,
			DueAt:    startedAt.Add(time.Duration(step.DelayDays) * 24 * time.Hour),
		})
	}
	return actions
}
