// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/premunia/automation/apis"
)

// ValidateSequence checks a sequence definition at write time so that the
// executor never meets a malformed step: execution orders must be dense and
// ascending starting at 1, delays non-negative, and each step must carry
// exactly the payload field its action kind needs.
func ValidateSequence(request apis.SequenceCreateRequest) error {
	if request.Name == "" {
		return fmt.Errorf("sequence name is required")
	}
	if request.TriggerStatus == "" {
		return fmt.Errorf("sequence triggerStatus is required")
	}
	if len(request.Steps) == 0 {
		return fmt.Errorf("a sequence needs at least one step")
	}

	for i, step := range request.Steps {
		if step.ExecutionOrder != i+1 {
			return fmt.Errorf("execution orders must be dense and ascending from 1, got %v at position %v",
				step.ExecutionOrder, i)
		}
		if step.DelayDays < 0 {
			return fmt.Errorf("step %v has a negative delay", step.ExecutionOrder)
		}
		if err := validateStepPayload(step); err != nil {
			return err
		}
	}
	return nil
}

func validateStepPayload(step apis.SequenceStep) error {
	switch step.ActionKind {
	case apis.ActionKindSendEmail:
		if step.EmailTemplateId == nil || *step.EmailTemplateId == "" {
			return fmt.Errorf("step %v: SEND_EMAIL requires emailTemplateId", step.ExecutionOrder)
		}
		if step.TargetStatus != nil || step.TaskDescription != nil {
			return fmt.Errorf("step %v: SEND_EMAIL carries an unexpected payload field", step.ExecutionOrder)
		}
	case apis.ActionKindUpdateProspectStatus:
		if step.TargetStatus == nil || *step.TargetStatus == "" {
			return fmt.Errorf("step %v: UPDATE_PROSPECT_STATUS requires targetStatus", step.ExecutionOrder)
		}
		if step.EmailTemplateId != nil || step.TaskDescription != nil {
			return fmt.Errorf("step %v: UPDATE_PROSPECT_STATUS carries an unexpected payload field", step.ExecutionOrder)
		}
	case apis.ActionKindCreateTask:
		if step.TaskDescription == nil || *step.TaskDescription == "" {
			return fmt.Errorf("step %v: CREATE_TASK requires taskDescription", step.ExecutionOrder)
		}
		if step.EmailTemplateId != nil || step.TargetStatus != nil {
			return fmt.Errorf("step %v: CREATE_TASK carries an unexpected payload field", step.ExecutionOrder)
		}
	default:
		return fmt.Errorf("step %v: unknown action kind %v", step.ExecutionOrder, step.ActionKind)
	}
	return nil
}
