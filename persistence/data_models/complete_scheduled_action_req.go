// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package data_models

import (
	"time"

	"github.com/premunia/automation/apis"
)

// CompleteScheduledActionRequest moves a claimed action into a terminal state
type CompleteScheduledActionRequest struct {
	ActionId string
	// Status must be EXECUTED or FAILED
	Status        apis.ScheduledActionStatus
	ResultMessage string
	AttemptCount  int32
}

// BackoffScheduledActionRequest returns a claimed action to PENDING with a
// pushed-forward due time after a transient delivery failure
type BackoffScheduledActionRequest struct {
	ActionId     string
	DueAt        time.Time
	AttemptCount int32
}
