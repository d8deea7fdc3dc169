// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/ptr"
)

func validCreateRequest() apis.SequenceCreateRequest {
	return apis.SequenceCreateRequest{
		Name:          "Relance Devis J+5",
		TriggerStatus: "Devis Envoyé",
		IsActive:      true,
		Steps: []apis.SequenceStep{
			{
				ExecutionOrder:  1,
				DelayDays:       5,
				ActionKind:      apis.ActionKindSendEmail,
				EmailTemplateId: ptr.Any("tpl-relance-devis"),
			},
			{
				ExecutionOrder:  2,
				DelayDays:       10,
				ActionKind:      apis.ActionKindCreateTask,
				TaskDescription: ptr.Any("Appel de relance pour le devis"),
			},
		},
	}
}

func TestValidateSequenceAcceptsWellFormed(t *testing.T) {
	assert.NoError(t, ValidateSequence(validCreateRequest()))
}

func TestValidateSequenceRejectsEmptySteps(t *testing.T) {
	request := validCreateRequest()
	request.Steps = nil
	assert.ErrorContains(t, ValidateSequence(request), "at least one step")
}

func TestValidateSequenceRejectsNonDenseOrders(t *testing.T) {
	request := validCreateRequest()
	request.Steps[1].ExecutionOrder = 3
	assert.ErrorContains(t, ValidateSequence(request), "dense and ascending")
}

func TestValidateSequenceRejectsDuplicateOrders(t *testing.T) {
	request := validCreateRequest()
	request.Steps[1].ExecutionOrder = 1
	assert.ErrorContains(t, ValidateSequence(request), "dense and ascending")
}

func TestValidateSequenceRejectsNegativeDelay(t *testing.T) {
	request := validCreateRequest()
	request.Steps[0].DelayDays = -1
	assert.ErrorContains(t, ValidateSequence(request), "negative delay")
}

func TestValidateSequenceRejectsMissingPayload(t *testing.T) {
	request := validCreateRequest()
	request.Steps[0].EmailTemplateId = nil
	assert.ErrorContains(t, ValidateSequence(request), "requires emailTemplateId")
}

func TestValidateSequenceRejectsMismatchedPayload(t *testing.T) {
	request := validCreateRequest()
	request.Steps[0].TargetStatus = ptr.Any("Perdu")
	assert.ErrorContains(t, ValidateSequence(request), "unexpected payload")
}

func TestValidateSequenceRejectsUnknownKind(t *testing.T) {
	request := validCreateRequest()
	request.Steps[0].ActionKind = "SEND_SMS"
	assert.ErrorContains(t, ValidateSequence(request), "unknown action kind")
}

func TestValidateSequenceRejectsMissingTrigger(t *testing.T) {
	request := validCreateRequest()
	request.TriggerStatus = ""
	assert.ErrorContains(t, ValidateSequence(request), "triggerStatus is required")
}
