// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"database/sql"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/extensions"
)

func nullStringToPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func ptrToNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromSequenceStepRow(row extensions.SequenceStepRow) apis.SequenceStep {
	return apis.SequenceStep{
		StepId:          row.StepId,
		ExecutionOrder:  row.ExecutionOrder,
		DelayDays:       row.DelayDays,
		ActionKind:      apis.ActionKind(row.ActionKind),
		EmailTemplateId: nullStringToPtr(row.EmailTemplateId),
		TargetStatus:    nullStringToPtr(row.TargetStatus),
		TaskDescription: nullStringToPtr(row.TaskDescription),
	}
}

func fromSequenceRow(row extensions.AutomationSequenceRow, steps []extensions.SequenceStepRow) apis.SequenceDefinition {
	def := apis.SequenceDefinition{
		SequenceId:    row.SequenceId,
		Name:          row.Name,
		TriggerStatus: row.TriggerStatus,
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt,
	}
	for _, stepRow := range steps {
		def.Steps = append(def.Steps, fromSequenceStepRow(stepRow))
	}
	return def
}

func fromScheduledActionRow(row extensions.ScheduledActionRow) apis.ScheduledAction {
	return apis.ScheduledAction{
		ActionId:      row.ActionId,
		InstanceId:    row.InstanceId,
		StepId:        row.StepId,
		ProspectId:    row.ProspectId,
		DueAt:         row.DueAt,
		Status:        apis.ScheduledActionStatus(row.Status),
		ResultMessage: nullStringToPtr(row.ResultMessage),
		AttemptCount:  row.AttemptCount,
	}
}
