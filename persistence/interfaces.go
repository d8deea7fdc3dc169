// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/persistence/data_models"
)

// AutomationStore is the persistence contract of the lifecycle automation
// engine: sequence catalog, instance/action pipeline and the CRM projections
// it renders against.
type AutomationStore interface {
	// sequence catalog (operator managed, long-lived)

	CreateSequence(ctx context.Context, request data_models.CreateSequenceRequest) error
	DescribeSequence(ctx context.Context, sequenceId string) (*data_models.DescribeSequenceResponse, error)
	ListSequences(ctx context.Context) ([]apis.SequenceDefinition, error)
	UpdateSequenceIsActive(ctx context.Context, sequenceId string, isActive bool) error
	// GetActiveSequencesByTriggerStatus returns only active definitions whose
	// trigger equals the given status, with steps ordered by executionOrder.
	// Result order is deterministic (sequenceId ascending) for a given snapshot.
	GetActiveSequencesByTriggerStatus(ctx context.Context, triggerStatus string) ([]apis.SequenceDefinition, error)

	// instance/action pipeline

	// StartSequenceInstance persists a new pending instance and its eagerly
	// materialized actions in one transaction. A prior pending instance of the
	// same sequence for the same prospect is superseded in the same
	// transaction (its PENDING actions flip to CANCELLED_BY_SYSTEM).
	StartSequenceInstance(ctx context.Context, request data_models.StartSequenceInstanceRequest) (*data_models.StartSequenceInstanceResponse, error)
	GetDueScheduledActions(ctx context.Context, request data_models.GetDueScheduledActionsRequest) (*data_models.GetDueScheduledActionsResponse, error)
	// ClaimScheduledAction is the compare-and-set from PENDING to IN_PROGRESS.
	// Returns false when the action already left PENDING (claimed by another
	// sweep worker, cancelled, or already terminal).
	ClaimScheduledAction(ctx context.Context, actionId string) (claimed bool, err error)
	CompleteScheduledAction(ctx context.Context, request data_models.CompleteScheduledActionRequest) error
	BackoffScheduledAction(ctx context.Context, request data_models.BackoffScheduledActionRequest) error
	// CompleteInstanceIfNoPendingActions marks an instance COMPLETED once none
	// of its actions is PENDING or IN_PROGRESS anymore
	CompleteInstanceIfNoPendingActions(ctx context.Context, instanceId string) error
	CancelPendingInstance(ctx context.Context, request data_models.CancelPendingInstanceRequest) (*data_models.CancelPendingInstanceResponse, error)
	GetAutomationHistory(ctx context.Context, prospectId string) ([]apis.ScheduledAction, error)

	// CRM projections

	GetProspectContext(ctx context.Context, prospectId string) (*data_models.GetProspectContextResponse, error)
	UpdateProspectStatus(ctx context.Context, prospectId string, newStatus string) (*data_models.UpdateProspectStatusResponse, error)
	GetEmailTemplate(ctx context.Context, templateId string) (*data_models.GetEmailTemplateResponse, error)

	Close() error
}
