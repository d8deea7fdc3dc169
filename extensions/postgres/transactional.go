// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/premunia/automation/extensions"
)

const insertSequenceQuery = `INSERT INTO automation_sequences
	(sequence_id, name, trigger_status, is_active, created_at) VALUES
	(:sequence_id, :name, :trigger_status, :is_active, :created_at)`

func (d dbTx) InsertSequence(ctx context.Context, row extensions.AutomationSequenceRow) (sql.Result, error) {
	return d.tx.NamedExecContext(ctx, insertSequenceQuery, row)
}

const insertSequenceStepQuery = `INSERT INTO sequence_steps
	(step_id, sequence_id, execution_order, delay_days, action_kind, email_template_id, target_status, task_description) VALUES
	(:step_id, :sequence_id, :execution_order, :delay_days, :action_kind, :email_template_id, :target_status, :task_description)`

func (d dbTx) InsertSequenceStep(ctx context.Context, row extensions.SequenceStepRow) (sql.Result, error) {
	return d.tx.NamedExecContext(ctx, insertSequenceStepQuery, row)
}

const insertSequenceInstanceQuery = `INSERT INTO sequence_instances
	(instance_id, sequence_id, prospect_id, started_at, status) VALUES
	(:instance_id, :sequence_id, :prospect_id, :started_at, :status)`

func (d dbTx) InsertSequenceInstance(ctx context.Context, row extensions.SequenceInstanceRow) (sql.Result, error) {
	return d.tx.NamedExecContext(ctx, insertSequenceInstanceQuery, row)
}

const insertScheduledActionQuery = `INSERT INTO scheduled_actions
	(action_id, instance_id, step_id, prospect_id, due_at, status, result_message, attempt_count) VALUES
	(:action_id, :instance_id, :step_id, :prospect_id, :due_at, :status, :result_message, :attempt_count)`

func (d dbTx) InsertScheduledAction(ctx context.Context, row extensions.ScheduledActionRow) (sql.Result, error) {
	return d.tx.NamedExecContext(ctx, insertScheduledActionQuery, row)
}

const selectPendingInstanceForUpdateQuery = `SELECT instance_id, sequence_id, prospect_id, started_at, status
	FROM sequence_instances WHERE prospect_id=$1 AND sequence_id=$2 AND status='PENDING' FOR UPDATE`

func (d dbTx) SelectPendingInstanceForUpdate(
	ctx context.Context, prospectId, sequenceId string,
) (*extensions.SequenceInstanceRow, error) {
	var rows []extensions.SequenceInstanceRow
	err := d.tx.SelectContext(ctx, &rows, selectPendingInstanceForUpdateQuery, prospectId, sequenceId)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) > 1 {
		// the partial unique index on (prospect_id, sequence_id) where
		// status='PENDING' makes this unreachable
		return nil, fmt.Errorf("more than one pending instance found for prospect %s and sequence %s", prospectId, sequenceId)
	}
	return &rows[0], nil
}

const updateInstanceStatusQuery = `UPDATE sequence_instances SET status=$2 WHERE instance_id=$1`

func (d dbTx) UpdateInstanceStatus(ctx context.Context, instanceId string, status string) (sql.Result, error) {
	return d.tx.ExecContext(ctx, updateInstanceStatusQuery, instanceId, status)
}

const updatePendingActionsStatusByInstanceQuery = `UPDATE scheduled_actions SET status=$2
	WHERE instance_id=$1 AND status='PENDING'`

func (d dbTx) UpdatePendingActionsStatusByInstance(
	ctx context.Context, instanceId string, toStatus string,
) (int64, error) {
	result, err := d.tx.ExecContext(ctx, updatePendingActionsStatusByInstanceQuery, instanceId, toStatus)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
