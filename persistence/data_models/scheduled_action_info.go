// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package data_models

import (
	"time"

	"github.com/premunia/automation/apis"
)

// ScheduledActionInfo is one due scheduled action joined with its originating
// step, carrying everything the executor needs to dispatch
type ScheduledActionInfo struct {
	ActionId     string
	InstanceId   string
	StepId       string
	ProspectId   string
	SequenceId   string
	DueAt        time.Time
	Status       apis.ScheduledActionStatus
	AttemptCount int32

	// step fields, snapshot at materialization time is the scheduled_actions
	// row itself; kind and payload are read from the owning step
	ExecutionOrder  int
	ActionKind      apis.ActionKind
	EmailTemplateId *string
	TargetStatus    *string
	TaskDescription *string
}
