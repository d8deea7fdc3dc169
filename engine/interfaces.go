// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/persistence/data_models"
)

// TriggerMatcher reacts to prospect state-change events: for every active
// sequence whose trigger matches the new status it starts a fresh instance
// (superseding a prior pending one) and materializes all scheduled actions.
// Processing is synchronous; the event is only acked after it returns.
type TriggerMatcher interface {
	ProcessStateChangeEvent(ctx context.Context, event apis.StateChangeEvent) error
}

// ActionExecutor executes one due scheduled action end to end: claim,
// dispatch by kind, record the terminal status or schedule a retry.
type ActionExecutor interface {
	ExecuteDueAction(ctx context.Context, action data_models.ScheduledActionInfo) error
}

// SweepQueue is the poll loop that loads due actions from the store on a
// jittered interval and hands them to the processor. TriggerPolling wakes it
// early so zero-delay steps run without waiting a full interval.
type SweepQueue interface {
	Start() error
	TriggerPolling(request apis.NotifyDueActionsRequest)
	Stop(ctx context.Context) error
}

// ActionProcessor is the bounded worker pool behind the sweep queue
type ActionProcessor interface {
	Start() error
	Stop(ctx context.Context) error

	// GetTasksToProcessChan exposes the channel the queue dispatches into
	GetTasksToProcessChan() chan<- data_models.ScheduledActionInfo
}

// DueActionNotifier wakes the sweep loop after new actions were
// materialized. Notification is best effort: a lost notify only delays
// execution until the next poll interval.
type DueActionNotifier interface {
	NotifyDueActions(request apis.NotifyDueActionsRequest)
}

// CancellationManager is the operator-facing cancel entry point
type CancellationManager interface {
	CancelInstance(ctx context.Context, prospectId, sequenceId string, reason apis.CancelReason) (cancelledActionCount int, err error)
}

// EmailMessage is a fully rendered outbound email
type EmailMessage struct {
	ProspectId string
	To         string
	Subject    string
	Body       string
	TemplateId string
}

// MessageSink delivers rendered emails. Implementations must classify
// failures: ConfigurationError for permanent ones, TransientDeliveryError
// for retryable ones.
type MessageSink interface {
	SendEmail(ctx context.Context, message EmailMessage) error
}

// ProspectTask is a follow-up task for the prospect's assigned commercial
type ProspectTask struct {
	ProspectId   string
	CommercialId string
	Description  string
}

// TaskSink records follow-up tasks in the CRM
type TaskSink interface {
	CreateTask(ctx context.Context, task ProspectTask) error
}
