// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package apis

type SequenceCreateRequest struct {
	Name          string         `json:"name"`
	TriggerStatus string         `json:"triggerStatus"`
	IsActive      bool           `json:"isActive"`
	Steps         []SequenceStep `json:"steps"`
}

type SequenceCreateResponse struct {
	SequenceId string `json:"sequenceId"`
}

type SequenceDescribeRequest struct {
	SequenceId string `json:"sequenceId"`
}

type SequenceListResponse struct {
	Sequences []SequenceDefinition `json:"sequences"`
}

type SequenceUpdateStatusRequest struct {
	SequenceId string `json:"sequenceId"`
	IsActive   bool   `json:"isActive"`
}

// AutomationCancelRequest is an operator-initiated cancel of the pending
// instance of one sequence for one prospect
type AutomationCancelRequest struct {
	ProspectId string `json:"prospectId"`
	SequenceId string `json:"sequenceId"`
}

type AutomationCancelResponse struct {
	CancelledActionCount int `json:"cancelledActionCount"`
}

type AutomationHistoryRequest struct {
	ProspectId string `json:"prospectId"`
}

type AutomationHistoryResponse struct {
	Actions []ScheduledAction `json:"actions"`
}

// NotifyDueActionsRequest wakes the async service's sweep loop so that
// freshly materialized actions with a zero delay are picked up without
// waiting for the next poll interval
type NotifyDueActionsRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ApiErrorResponse struct {
	Detail *string `json:"detail,omitempty"`
}
