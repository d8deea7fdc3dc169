// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/premunia/automation/extensions"
)

const selectSequenceByIdQuery = `SELECT sequence_id, name, trigger_status, is_active, created_at
	FROM automation_sequences WHERE sequence_id=$1`

func (d dbSession) SelectSequenceById(
	ctx context.Context, sequenceId string,
) (*extensions.AutomationSequenceRow, error) {
	var row extensions.AutomationSequenceRow
	err := d.db.GetContext(ctx, &row, selectSequenceByIdQuery, sequenceId)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

const selectAllSequencesQuery = `SELECT sequence_id, name, trigger_status, is_active, created_at
	FROM automation_sequences ORDER BY sequence_id ASC`

func (d dbSession) SelectAllSequences(ctx context.Context) ([]extensions.AutomationSequenceRow, error) {
	var rows []extensions.AutomationSequenceRow
	err := d.db.SelectContext(ctx, &rows, selectAllSequencesQuery)
	return rows, err
}

const selectActiveSequencesByTriggerStatusQuery = `SELECT sequence_id, name, trigger_status, is_active, created_at
	FROM automation_sequences WHERE trigger_status=$1 AND is_active ORDER BY sequence_id ASC`

func (d dbSession) SelectActiveSequencesByTriggerStatus(
	ctx context.Context, triggerStatus string,
) ([]extensions.AutomationSequenceRow, error) {
	var rows []extensions.AutomationSequenceRow
	err := d.db.SelectContext(ctx, &rows, selectActiveSequencesByTriggerStatusQuery, triggerStatus)
	return rows, err
}

const selectSequenceStepsQuery = `SELECT
	step_id, sequence_id, execution_order, delay_days, action_kind, email_template_id, target_status, task_description
	FROM sequence_steps WHERE sequence_id=$1 ORDER BY execution_order ASC`

func (d dbSession) SelectSequenceSteps(
	ctx context.Context, sequenceId string,
) ([]extensions.SequenceStepRow, error) {
	var rows []extensions.SequenceStepRow
	err := d.db.SelectContext(ctx, &rows, selectSequenceStepsQuery, sequenceId)
	return rows, err
}

const updateSequenceIsActiveQuery = `UPDATE automation_sequences SET is_active=$2 WHERE sequence_id=$1`

func (d dbSession) UpdateSequenceIsActive(
	ctx context.Context, sequenceId string, isActive bool,
) (sql.Result, error) {
	return d.db.ExecContext(ctx, updateSequenceIsActiveQuery, sequenceId, isActive)
}

const selectDueScheduledActionsQuery = `SELECT
	a.action_id, a.instance_id, a.step_id, a.prospect_id, i.sequence_id, a.due_at, a.status, a.attempt_count,
	s.execution_order, s.action_kind, s.email_template_id, s.target_status, s.task_description
	FROM scheduled_actions a
	INNER JOIN sequence_steps s ON s.step_id = a.step_id
	INNER JOIN sequence_instances i ON i.instance_id = a.instance_id
	WHERE a.status = 'PENDING' AND a.due_at <= $1
	ORDER BY a.due_at ASC, s.execution_order ASC, a.action_id ASC
	LIMIT $2`

func (d dbSession) SelectDueScheduledActions(
	ctx context.Context, asOf time.Time, pageSize int32,
) ([]extensions.DueScheduledActionRow, error) {
	var rows []extensions.DueScheduledActionRow
	err := d.db.SelectContext(ctx, &rows, selectDueScheduledActionsQuery, asOf, pageSize)
	return rows, err
}

const updateScheduledActionStatusIfStatusQuery = `UPDATE scheduled_actions SET
	status=$3,
	result_message=COALESCE($4, result_message),
	attempt_count=COALESCE($5, attempt_count)
	WHERE action_id=$1 AND status=$2`

func (d dbSession) UpdateScheduledActionStatusIfStatus(
	ctx context.Context, actionId string, fromStatus, toStatus string, resultMessage *string, attemptCount *int32,
) (sql.Result, error) {
	return d.db.ExecContext(ctx, updateScheduledActionStatusIfStatusQuery,
		actionId, fromStatus, toStatus, resultMessage, attemptCount)
}

const updateScheduledActionForBackoffQuery = `UPDATE scheduled_actions SET
	status='PENDING', due_at=$2, attempt_count=$3
	WHERE action_id=$1 AND status='IN_PROGRESS'`

func (d dbSession) UpdateScheduledActionForBackoff(
	ctx context.Context, actionId string, dueAt time.Time, attemptCount int32,
) (sql.Result, error) {
	return d.db.ExecContext(ctx, updateScheduledActionForBackoffQuery, actionId, dueAt, attemptCount)
}

const selectScheduledActionsByProspectQuery = `SELECT
	action_id, instance_id, step_id, prospect_id, due_at, status, result_message, attempt_count
	FROM scheduled_actions WHERE prospect_id=$1 ORDER BY due_at ASC, action_id ASC`

func (d dbSession) SelectScheduledActionsByProspect(
	ctx context.Context, prospectId string,
) ([]extensions.ScheduledActionRow, error) {
	var rows []extensions.ScheduledActionRow
	err := d.db.SelectContext(ctx, &rows, selectScheduledActionsByProspectQuery, prospectId)
	return rows, err
}

const countNonTerminalActionsByInstanceQuery = `SELECT COUNT(1) FROM scheduled_actions
	WHERE instance_id=$1 AND status IN ('PENDING', 'IN_PROGRESS')`

func (d dbSession) CountNonTerminalActionsByInstance(
	ctx context.Context, instanceId string,
) (int, error) {
	var count int
	err := d.db.GetContext(ctx, &count, countNonTerminalActionsByInstanceQuery, instanceId)
	return count, err
}

const updateInstanceStatusIfStatusQuery = `UPDATE sequence_instances SET status=$3
	WHERE instance_id=$1 AND status=$2`

func (d dbSession) UpdateInstanceStatusIfStatus(
	ctx context.Context, instanceId string, fromStatus, toStatus string,
) (sql.Result, error) {
	return d.db.ExecContext(ctx, updateInstanceStatusIfStatusQuery, instanceId, fromStatus, toStatus)
}

const selectProspectContextQuery = `SELECT
	p.prospect_id, p.commercial_id, p.first_name, p.last_name, p.email, p.phone, p.status,
	u.full_name AS commercial_full_name, u.email AS commercial_email
	FROM prospects p
	INNER JOIN users u ON u.user_id = p.commercial_id
	WHERE p.prospect_id=$1`

func (d dbSession) SelectProspectContext(
	ctx context.Context, prospectId string,
) (*extensions.ProspectContextRow, error) {
	var row extensions.ProspectContextRow
	err := d.db.GetContext(ctx, &row, selectProspectContextQuery, prospectId)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

const updateProspectStatusQuery = `UPDATE prospects SET status=$2, last_interaction_at=now()
	FROM (SELECT prospect_id, status AS previous_status FROM prospects WHERE prospect_id=$1 FOR UPDATE) old
	WHERE prospects.prospect_id = old.prospect_id
	RETURNING old.previous_status`

func (d dbSession) UpdateProspectStatus(
	ctx context.Context, prospectId string, newStatus string,
) (*string, error) {
	var previousStatus string
	err := d.db.GetContext(ctx, &previousStatus, updateProspectStatusQuery, prospectId, newStatus)
	if err != nil {
		return nil, err
	}
	return &previousStatus, nil
}

const selectEmailTemplateQuery = `SELECT template_id, name, subject, body
	FROM email_templates WHERE template_id=$1`

func (d dbSession) SelectEmailTemplate(
	ctx context.Context, templateId string,
) (*extensions.EmailTemplateRow, error) {
	var row extensions.EmailTemplateRow
	err := d.db.GetContext(ctx, &row, selectEmailTemplateQuery, templateId)
	if err != nil {
		return nil, err
	}
	return &row, nil
}
