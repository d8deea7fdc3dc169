// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package data_models

import "time"

// MaterializedAction is one scheduled action to persist when an instance
// starts. All of an instance's steps are materialized eagerly in one batch.
type MaterializedAction struct {
	ActionId string
	StepId   string
	DueAt    time.Time
}

type StartSequenceInstanceRequest struct {
	InstanceId string
	SequenceId string
	ProspectId string
	StartedAt  time.Time
	Actions    []MaterializedAction
}

type StartSequenceInstanceResponse struct {
	// SupersededInstanceId is set when a prior pending instance of the same
	// sequence existed for the prospect and was superseded in the same
	// transaction
	SupersededInstanceId *string
	CancelledActionCount int
}
