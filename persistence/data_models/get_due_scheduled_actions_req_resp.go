// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package data_models

import "time"

type GetDueScheduledActionsRequest struct {
	AsOf     time.Time
	PageSize int32
}

type GetDueScheduledActionsResponse struct {
	// Actions are PENDING actions with dueAt <= AsOf,
	// ordered by (dueAt, executionOrder, actionId)
	Actions []ScheduledActionInfo
}
