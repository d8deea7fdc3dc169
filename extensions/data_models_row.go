// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"database/sql"
	"time"
)

// rows map 1:1 to tables; sqlx maps CamelCase field names to snake_case
// columns via the extension's MapperFunc, so no db struct tags are needed

type AutomationSequenceRow struct {
	SequenceId    string
	Name          string
	TriggerStatus string
	IsActive      bool
	CreatedAt     time.Time
}

type SequenceStepRow struct {
	StepId          string
	SequenceId      string
	ExecutionOrder  int
	DelayDays       int
	ActionKind      string
	EmailTemplateId sql.NullString
	TargetStatus    sql.NullString
	TaskDescription sql.NullString
}

type SequenceInstanceRow struct {
	InstanceId string
	SequenceId string
	ProspectId string
	StartedAt  time.Time
	Status     string
}

type ScheduledActionRow struct {
	ActionId      string
	InstanceId    string
	StepId        string
	ProspectId    string
	DueAt         time.Time
	Status        string
	ResultMessage sql.NullString
	AttemptCount  int32
}

// DueScheduledActionRow is the scheduled_actions x sequence_steps x
// sequence_instances join used by the due-action sweep
type DueScheduledActionRow struct {
	ActionId        string
	InstanceId      string
	StepId          string
	ProspectId      string
	SequenceId      string
	DueAt           time.Time
	Status          string
	AttemptCount    int32
	ExecutionOrder  int
	ActionKind      string
	EmailTemplateId sql.NullString
	TargetStatus    sql.NullString
	TaskDescription sql.NullString
}

// ProspectContextRow is the prospects x users join projection
type ProspectContextRow struct {
	ProspectId         string
	CommercialId       string
	FirstName          string
	LastName           string
	Email              sql.NullString
	Phone              sql.NullString
	Status             string
	CommercialFullName string
	CommercialEmail    string
}

type EmailTemplateRow struct {
	TemplateId string
	Name       string
	Subject    string
	Body       string
}
