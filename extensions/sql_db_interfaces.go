// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"context"
	"database/sql"
	"time"

	"github.com/premunia/automation/config"
)

type SQLDBExtension interface {
	// StartDBSession starts the session for regular business logic
	StartDBSession(cfg *config.SQL) (SQLDBSession, error)
	// StartAdminDBSession starts the session for admin operation like DDL
	StartAdminDBSession(cfg *config.SQL) (SQLAdminDBSession, error)
}

type SQLDBSession interface {
	automationNonTxnCRUD
	ErrorChecker

	StartTransaction(ctx context.Context) (SQLTransaction, error)
	Close() error
}

type SQLTransaction interface {
	automationTxnCRUD
	Commit() error
	Rollback() error
}

type SQLAdminDBSession interface {
	CreateDatabase(ctx context.Context, database string) error
	DropDatabase(ctx context.Context, database string) error
	ExecuteSchemaDDL(ctx context.Context, ddlQuery string) error
	Close() error
}

type automationNonTxnCRUD interface {
	SelectSequenceById(ctx context.Context, sequenceId string) (*AutomationSequenceRow, error)
	SelectAllSequences(ctx context.Context) ([]AutomationSequenceRow, error)
	SelectActiveSequencesByTriggerStatus(ctx context.Context, triggerStatus string) ([]AutomationSequenceRow, error)
	SelectSequenceSteps(ctx context.Context, sequenceId string) ([]SequenceStepRow, error)
	UpdateSequenceIsActive(ctx context.Context, sequenceId string, isActive bool) (sql.Result, error)

	SelectDueScheduledActions(ctx context.Context, asOf time.Time, pageSize int32) ([]DueScheduledActionRow, error)
	// UpdateScheduledActionStatusIfStatus is the compare-and-set used both for
	// claiming (PENDING -> IN_PROGRESS) and for completing a claimed action
	UpdateScheduledActionStatusIfStatus(
		ctx context.Context, actionId string, fromStatus, toStatus string, resultMessage *string, attemptCount *int32,
	) (sql.Result, error)
	UpdateScheduledActionForBackoff(ctx context.Context, actionId string, dueAt time.Time, attemptCount int32) (sql.Result, error)
	SelectScheduledActionsByProspect(ctx context.Context, prospectId string) ([]ScheduledActionRow, error)
	CountNonTerminalActionsByInstance(ctx context.Context, instanceId string) (int, error)
	UpdateInstanceStatusIfStatus(ctx context.Context, instanceId string, fromStatus, toStatus string) (sql.Result, error)

	SelectProspectContext(ctx context.Context, prospectId string) (*ProspectContextRow, error)
	UpdateProspectStatus(ctx context.Context, prospectId string, newStatus string) (previousStatus *string, err error)
	SelectEmailTemplate(ctx context.Context, templateId string) (*EmailTemplateRow, error)
}

type automationTxnCRUD interface {
	InsertSequence(ctx context.Context, row AutomationSequenceRow) (sql.Result, error)
	InsertSequenceStep(ctx context.Context, row SequenceStepRow) (sql.Result, error)

	InsertSequenceInstance(ctx context.Context, row SequenceInstanceRow) (sql.Result, error)
	InsertScheduledAction(ctx context.Context, row ScheduledActionRow) (sql.Result, error)
	// SelectPendingInstanceForUpdate locks the pending instance row (if any) of
	// the (prospect, sequence) pair so that supersession and concurrent starts
	// serialize
	SelectPendingInstanceForUpdate(ctx context.Context, prospectId, sequenceId string) (*SequenceInstanceRow, error)
	UpdateInstanceStatus(ctx context.Context, instanceId string, status string) (sql.Result, error)
	// UpdatePendingActionsStatusByInstance flips every PENDING action of the
	// instance to the given status, returning the number of flipped rows
	UpdatePendingActionsStatusByInstance(ctx context.Context, instanceId string, toStatus string) (int64, error)
}

type ErrorChecker interface {
	IsDupEntryError(err error) bool
	IsNotFoundError(err error) bool
	IsTimeoutError(err error) bool
	IsThrottlingError(err error) bool
}
