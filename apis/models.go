// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package apis

import "time"

// StateChangeEvent is emitted by the CRM CRUD layer whenever a prospect's
// status field is written. The same shape is reused for the loopback events
// emitted by UPDATE_PROSPECT_STATUS steps.
type StateChangeEvent struct {
	ProspectId     string    `json:"prospectId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// SequenceDefinition is an operator-managed automation sequence.
// Inactive definitions never start new instances; running instances
// are unaffected by deactivation.
type SequenceDefinition struct {
	SequenceId    string         `json:"sequenceId"`
	Name          string         `json:"name"`
	TriggerStatus string         `json:"triggerStatus"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
	Steps         []SequenceStep `json:"steps,omitempty"`
}

// SequenceStep is one ordered step of a sequence. DelayDays is the offset in
// whole days from the instance start, not cumulative from the previous step.
// Exactly one of the payload fields is set, matching ActionKind.
type SequenceStep struct {
	StepId          string     `json:"stepId"`
	ExecutionOrder  int        `json:"executionOrder"`
	DelayDays       int        `json:"delayDays"`
	ActionKind      ActionKind `json:"actionKind"`
	EmailTemplateId *string    `json:"emailTemplateId,omitempty"`
	TargetStatus    *string    `json:"targetStatus,omitempty"`
	TaskDescription *string    `json:"taskDescription,omitempty"`
}

// ScheduledAction is one materialized, timed execution of a step
type ScheduledAction struct {
	ActionId      string                `json:"actionId"`
	InstanceId    string                `json:"instanceId"`
	StepId        string                `json:"stepId"`
	ProspectId    string                `json:"prospectId"`
	DueAt         time.Time             `json:"dueAt"`
	Status        ScheduledActionStatus `json:"status"`
	ResultMessage *string               `json:"resultMessage,omitempty"`
	AttemptCount  int32                 `json:"attemptCount"`
}

// EmailTemplate is a message template referenced by SEND_EMAIL steps
type EmailTemplate struct {
	TemplateId string `json:"templateId"`
	Name       string `json:"name"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}
