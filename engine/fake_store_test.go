// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/persistence"
	"github.com/premunia/automation/persistence/data_models"
)

// fakeAutomationStore is an in-memory AutomationStore with the same
// semantics as the SQL implementation, for exercising the engine without a
// database
type fakeAutomationStore struct {
	sync.Mutex

	sequences map[string]apis.SequenceDefinition
	instances map[string]*fakeInstance
	actions   map[string]*fakeAction
	prospects map[string]data_models.ProspectContext
	templates map[string]apis.EmailTemplate
}

type fakeInstance struct {
	InstanceId string
	SequenceId string
	ProspectId string
	Status     apis.InstanceStatus
}

type fakeAction struct {
	data_models.ScheduledActionInfo
	ResultMessage string
}

func newFakeAutomationStore() *fakeAutomationStore {
	return &fakeAutomationStore{
		sequences: map[string]apis.SequenceDefinition{},
		instances: map[string]*fakeInstance{},
		actions:   map[string]*fakeAction{},
		prospects: map[string]data_models.ProspectContext{},
		templates: map[string]apis.EmailTemplate{},
	}
}

func (f *fakeAutomationStore) addSequence(def apis.SequenceDefinition) {
	f.Lock()
	defer f.Unlock()
	f.sequences[def.SequenceId] = def
}

func (f *fakeAutomationStore) addProspect(prospect data_models.ProspectContext) {
	f.Lock()
	defer f.Unlock()
	f.prospects[prospect.ProspectId] = prospect
}

func (f *fakeAutomationStore) addTemplate(template apis.EmailTemplate) {
	f.Lock()
	defer f.Unlock()
	f.templates[template.TemplateId] = template
}

func (f *fakeAutomationStore) CreateSequence(
	_ context.Context, request data_models.CreateSequenceRequest,
) error {
	f.Lock()
	defer f.Unlock()
	def := apis.SequenceDefinition{
		SequenceId:    request.SequenceId,
		Name:          request.Definition.Name,
		TriggerStatus: request.Definition.TriggerStatus,
		IsActive:      request.Definition.IsActive,
		CreatedAt:     time.Now(),
		Steps:         request.Definition.Steps,
	}
	f.sequences[request.SequenceId] = def
	return nil
}

func (f *fakeAutomationStore) DescribeSequence(
	_ context.Context, sequenceId string,
) (*data_models.DescribeSequenceResponse, error) {
	f.Lock()
	defer f.Unlock()
	def, ok := f.sequences[sequenceId]
	if !ok {
		return &data_models.DescribeSequenceResponse{NotExists: true}, nil
	}
	return &data_models.DescribeSequenceResponse{Sequence: def}, nil
}

func (f *fakeAutomationStore) ListSequences(_ context.Context) ([]apis.SequenceDefinition, error) {
	f.Lock()
	defer f.Unlock()
	var defs []apis.SequenceDefinition
	for _, def := range f.sequences {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].SequenceId < defs[j].SequenceId })
	return defs, nil
}

func (f *fakeAutomationStore) UpdateSequenceIsActive(
	_ context.Context, sequenceId string, isActive bool,
) error {
	f.Lock()
	defer f.Unlock()
	def := f.sequences[sequenceId]
	def.IsActive = isActive
	f.sequences[sequenceId] = def
	return nil
}

func (f *fakeAutomationStore) GetActiveSequencesByTriggerStatus(
	_ context.Context, triggerStatus string,
) ([]apis.SequenceDefinition, error) {
	f.Lock()
	defer f.Unlock()
	var defs []apis.SequenceDefinition
	for _, def := range f.sequences {
		if def.IsActive && def.TriggerStatus == triggerStatus {
			defs = append(defs, def)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].SequenceId < defs[j].SequenceId })
	return defs, nil
}

func (f *fakeAutomationStore) StartSequenceInstance(
	_ context.Context, request data_models.StartSequenceInstanceRequest,
) (*data_models.StartSequenceInstanceResponse, error) {
	f.Lock()
	defer f.Unlock()
	resp := &data_models.StartSequenceInstanceResponse{}

	for _, instance := range f.instances {
		if instance.ProspectId == request.ProspectId &&
			instance.SequenceId == request.SequenceId &&
			instance.Status == apis.InstanceStatusPending {
			instance.Status = apis.InstanceStatusSuperseded
			for _, action := range f.actions {
				if action.InstanceId == instance.InstanceId && action.Status == apis.ActionStatusPending {
					action.Status = apis.ActionStatusCancelledBySystem
					resp.CancelledActionCount++
				}
			}
			resp.SupersededInstanceId = ptr.Any(instance.InstanceId)
		}
	}

	f.instances[request.InstanceId] = &fakeInstance{
		InstanceId: request.InstanceId,
		SequenceId: request.SequenceId,
		ProspectId: request.ProspectId,
		Status:     apis.InstanceStatusPending,
	}

	def := f.sequences[request.SequenceId]
	stepById := map[string]apis.SequenceStep{}
	for _, step := range def.Steps {
		stepById[step.StepId] = step
	}
	for _, materialized := range request.Actions {
		step := stepById[materialized.StepId]
		f.actions[materialized.ActionId] = &fakeAction{
			ScheduledActionInfo: data_models.ScheduledActionInfo{
				ActionId:        materialized.ActionId,
				InstanceId:      request.InstanceId,
				StepId:          materialized.StepId,
				ProspectId:      request.ProspectId,
				SequenceId:      request.SequenceId,
				DueAt:           materialized.DueAt,
				Status:          apis.ActionStatusPending,
				ExecutionOrder:  step.ExecutionOrder,
				ActionKind:      step.ActionKind,
				EmailTemplateId: step.EmailTemplateId,
				TargetStatus:    step.TargetStatus,
				TaskDescription: step.TaskDescription,
			},
		}
	}
	return resp, nil
}

func (f *fakeAutomationStore) GetDueScheduledActions(
	_ context.Context, request data_models.GetDueScheduledActionsRequest,
) (*data_models.GetDueScheduledActionsResponse, error) {
	f.Lock()
	defer f.Unlock()
	var due []data_models.ScheduledActionInfo
	for _, action := range f.actions {
		if action.Status == apis.ActionStatusPending && !action.DueAt.After(request.AsOf) {
			due = append(due, action.ScheduledActionInfo)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		if due[i].ExecutionOrder != due[j].ExecutionOrder {
			return due[i].ExecutionOrder < due[j].ExecutionOrder
		}
		return due[i].ActionId < due[j].ActionId
	})
	if int32(len(due)) > request.PageSize {
		due = due[:request.PageSize]
	}
	return &data_models.GetDueScheduledActionsResponse{Actions: due}, nil
}

func (f *fakeAutomationStore) ClaimScheduledAction(_ context.Context, actionId string) (bool, error) {
	f.Lock()
	defer f.Unlock()
	action, ok := f.actions[actionId]
	if !ok || action.Status != apis.ActionStatusPending {
		return false, nil
	}
	action.Status = apis.ActionStatusInProgress
	return true, nil
}

func (f *fakeAutomationStore) CompleteScheduledAction(
	_ context.Context, request data_models.CompleteScheduledActionRequest,
) error {
	f.Lock()
	defer f.Unlock()
	action := f.actions[request.ActionId]
	action.Status = request.Status
	action.ResultMessage = request.ResultMessage
	action.AttemptCount = request.AttemptCount
	return nil
}

func (f *fakeAutomationStore) BackoffScheduledAction(
	_ context.Context, request data_models.BackoffScheduledActionRequest,
) error {
	f.Lock()
	defer f.Unlock()
	action := f.actions[request.ActionId]
	action.Status = apis.ActionStatusPending
	action.DueAt = request.DueAt
	action.AttemptCount = request.AttemptCount
	return nil
}

func (f *fakeAutomationStore) CompleteInstanceIfNoPendingActions(
	_ context.Context, instanceId string,
) error {
	f.Lock()
	defer f.Unlock()
	for _, action := range f.actions {
		if action.InstanceId == instanceId && !action.Status.IsTerminal() {
			return nil
		}
	}
	instance := f.instances[instanceId]
	if instance.Status == apis.InstanceStatusPending {
		instance.Status = apis.InstanceStatusCompleted
	}
	return nil
}

func (f *fakeAutomationStore) CancelPendingInstance(
	_ context.Context, request data_models.CancelPendingInstanceRequest,
) (*data_models.CancelPendingInstanceResponse, error) {
	f.Lock()
	defer f.Unlock()
	for _, instance := range f.instances {
		if instance.ProspectId == request.ProspectId &&
			instance.SequenceId == request.SequenceId &&
			instance.Status == apis.InstanceStatusPending {
			instance.Status = apis.InstanceStatusCancelled
			actionStatus := apis.ActionStatusCancelledBySystem
			if request.Reason == apis.CancelReasonUser {
				actionStatus = apis.ActionStatusCancelledByUser
			}
			resp := &data_models.CancelPendingInstanceResponse{InstanceId: instance.InstanceId}
			for _, action := range f.actions {
				if action.InstanceId == instance.InstanceId && action.Status == apis.ActionStatusPending {
					action.Status = actionStatus
					resp.CancelledActionCount++
				}
			}
			return resp, nil
		}
	}
	return &data_models.CancelPendingInstanceResponse{NotExists: true}, nil
}

func (f *fakeAutomationStore) GetAutomationHistory(
	_ context.Context, prospectId string,
) ([]apis.ScheduledAction, error) {
	f.Lock()
	defer f.Unlock()
	var history []apis.ScheduledAction
	for _, action := range f.actions {
		if action.ProspectId == prospectId {
			history = append(history, apis.ScheduledAction{
				ActionId:      action.ActionId,
				InstanceId:    action.InstanceId,
				StepId:        action.StepId,
				ProspectId:    action.ProspectId,
				DueAt:         action.DueAt,
				Status:        action.Status,
				ResultMessage: ptr.Any(action.ResultMessage),
				AttemptCount:  action.AttemptCount,
			})
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].DueAt.Before(history[j].DueAt) })
	return history, nil
}

func (f *fakeAutomationStore) GetProspectContext(
	_ context.Context, prospectId string,
) (*data_models.GetProspectContextResponse, error) {
	f.Lock()
	defer f.Unlock()
	prospect, ok := f.prospects[prospectId]
	if !ok {
		return &data_models.GetProspectContextResponse{NotExists: true}, nil
	}
	return &data_models.GetProspectContextResponse{Prospect: prospect}, nil
}

func (f *fakeAutomationStore) UpdateProspectStatus(
	_ context.Context, prospectId string, newStatus string,
) (*data_models.UpdateProspectStatusResponse, error) {
	f.Lock()
	defer f.Unlock()
	prospect, ok := f.prospects[prospectId]
	if !ok {
		return &data_models.UpdateProspectStatusResponse{NotExists: true}, nil
	}
	previous := prospect.Status
	prospect.Status = newStatus
	f.prospects[prospectId] = prospect
	return &data_models.UpdateProspectStatusResponse{PreviousStatus: previous}, nil
}

func (f *fakeAutomationStore) GetEmailTemplate(
	_ context.Context, templateId string,
) (*data_models.GetEmailTemplateResponse, error) {
	f.Lock()
	defer f.Unlock()
	template, ok := f.templates[templateId]
	if !ok {
		return &data_models.GetEmailTemplateResponse{NotExists: true}, nil
	}
	return &data_models.GetEmailTemplateResponse{Subject: template.Subject, Body: template.Body}, nil
}

func (f *fakeAutomationStore) Close() error {
	return nil
}

// assert the fake stays in sync with the interface
var _ persistence.AutomationStore = (*fakeAutomationStore)(nil)

func (f *fakeAutomationStore) getAction(actionId string) fakeAction {
	f.Lock()
	defer f.Unlock()
	return *f.actions[actionId]
}

func (f *fakeAutomationStore) getInstance(instanceId string) fakeInstance {
	f.Lock()
	defer f.Unlock()
	return *f.instances[instanceId]
}

func (f *fakeAutomationStore) pendingInstanceOf(prospectId, sequenceId string) *fakeInstance {
	f.Lock()
	defer f.Unlock()
	for _, instance := range f.instances {
		if instance.ProspectId == prospectId &&
			instance.SequenceId == sequenceId &&
			instance.Status == apis.InstanceStatusPending {
			copied := *instance
			return &copied
		}
	}
	return nil
}

func (f *fakeAutomationStore) actionsOfInstance(instanceId string) []fakeAction {
	f.Lock()
	defer f.Unlock()
	var result []fakeAction
	for _, action := range f.actions {
		if action.InstanceId == instanceId {
			result = append(result, *action)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExecutionOrder < result[j].ExecutionOrder })
	return result
}
