// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package apis

// ActionKind is the closed set of step action kinds.
// Adding a kind requires handling it in the executor dispatch.
type ActionKind string

const (
	ActionKindSendEmail            ActionKind = "SEND_EMAIL"
	ActionKindUpdateProspectStatus ActionKind = "UPDATE_PROSPECT_STATUS"
	ActionKindCreateTask           ActionKind = "CREATE_TASK"
)

// ScheduledActionStatus is the lifecycle of one materialized step execution.
// IN_PROGRESS is the atomic claim marker used by sweep workers; every other
// non-PENDING status is terminal and immutable.
type ScheduledActionStatus string

const (
	ActionStatusPending           ScheduledActionStatus = "PENDING"
	ActionStatusInProgress        ScheduledActionStatus = "IN_PROGRESS"
	ActionStatusExecuted          ScheduledActionStatus = "EXECUTED"
	ActionStatusFailed            ScheduledActionStatus = "FAILED"
	ActionStatusCancelledByUser   ScheduledActionStatus = "CANCELLED_BY_USER"
	ActionStatusCancelledBySystem ScheduledActionStatus = "CANCELLED_BY_SYSTEM"
)

func (s ScheduledActionStatus) IsTerminal() bool {
	switch s {
	case ActionStatusExecuted, ActionStatusFailed,
		ActionStatusCancelledByUser, ActionStatusCancelledBySystem:
		return true
	}
	return false
}

// InstanceStatus is the lifecycle of one sequence instance
type InstanceStatus string

const (
	InstanceStatusPending    InstanceStatus = "PENDING"
	InstanceStatusCompleted  InstanceStatus = "COMPLETED"
	InstanceStatusSuperseded InstanceStatus = "SUPERSEDED"
	InstanceStatusCancelled  InstanceStatus = "CANCELLED"
)

// CancelReason distinguishes an operator cancel from a supersession
type CancelReason string

const (
	CancelReasonUser   CancelReason = "USER"
	CancelReasonSystem CancelReason = "SYSTEM"
)
