// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/clock"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/persistence"
	"github.com/premunia/automation/persistence/data_models"
)

const (
	resultEmailSent     = "Email envoyé avec succès"
	resultTaskCreated   = "Tâche créée avec succès"
	resultStatusUpdated = "Statut mis à jour vers %v"
	resultMaxAttempts   = "Échec après %v tentatives: %v"
)

type actionExecutorImpl struct {
	cfg         config.Config
	store       persistence.AutomationStore
	matcher     TriggerMatcher
	messageSink MessageSink
	taskSink    TaskSink
	timeSource  clock.TimeSource
	logger      log.Logger
}

func NewActionExecutor(
	cfg config.Config, store persistence.AutomationStore, matcher TriggerMatcher,
	messageSink MessageSink, taskSink TaskSink, timeSource clock.TimeSource, logger log.Logger,
) ActionExecutor {
	return &actionExecutorImpl{
		cfg:         cfg,
		store:       store,
		matcher:     matcher,
		messageSink: messageSink,
		taskSink:    taskSink,
		timeSource:  timeSource,
		logger:      logger,
	}
}

func (e *actionExecutorImpl) ExecuteDueAction(
	ctx context.Context, action data_models.ScheduledActionInfo,
) error {
	claimed, err := e.store.ClaimScheduledAction(ctx, action.ActionId)
	if err != nil {
		return err
	}
	if !claimed {
		// another worker, or a cancellation, got there first
		e.logger.Debug("action already left PENDING, skipping", tag.ActionId(action.ActionId))
		return nil
	}

	attempt := action.AttemptCount + 1
	dispatchErr := e.dispatch(ctx, action)
	if dispatchErr == nil {
		return e.recordExecuted(ctx, action, attempt)
	}

	if confErr, ok := AsConfigurationError(dispatchErr); ok {
		e.logger.Warn("action failed on configuration error",
			tag.ActionId(action.ActionId),
			tag.ActionKind(string(action.ActionKind)),
			tag.Error(confErr))
		return e.recordFailed(ctx, action, attempt, confErr.Message)
	}

	if deliveryErr, ok := AsTransientDeliveryError(dispatchErr); ok {
		if attempt >= e.cfg.AsyncService.Retry.MaximumAttempts {
			e.logger.Warn("action failed after exhausting retry attempts",
				tag.ActionId(action.ActionId),
				tag.Attempt(attempt),
				tag.Error(deliveryErr))
			return e.recordFailed(ctx, action, attempt,
				fmt.Sprintf(resultMaxAttempts, attempt, deliveryErr.Message))
		}
		dueAt := e.timeSource.Now().Add(e.cfg.AsyncService.Retry.BackoffInterval)
		e.logger.Info("transient delivery failure, backing off",
			tag.ActionId(action.ActionId),
			tag.Attempt(attempt),
			tag.DueAt(dueAt),
			tag.Error(deliveryErr))
		return e.store.BackoffScheduledAction(ctx, data_models.BackoffScheduledActionRequest{
			ActionId:     action.ActionId,
			DueAt:        dueAt,
			AttemptCount: attempt,
		})
	}

	// internal error, e.g. the store is down: leave the claim in place and
	// surface the error to the processor
	return dispatchErr
}

func (e *actionExecutorImpl) dispatch(
	ctx context.Context, action data_models.ScheduledActionInfo,
) error {
	prospectResp, err := e.store.GetProspectContext(ctx, action.ProspectId)
	if err != nil {
		return err
	}
	if prospectResp.NotExists {
		return NewConfigurationError(fmt.Sprintf("prospect %v does not exist", action.ProspectId))
	}
	prospect := prospectResp.Prospect

	switch action.ActionKind {
	case apis.ActionKindSendEmail:
		return e.dispatchSendEmail(ctx, action, prospect)
	case apis.ActionKindUpdateProspectStatus:
		return e.dispatchUpdateProspectStatus(ctx, action, prospect)
	case apis.ActionKindCreateTask:
		return e.dispatchCreateTask(ctx, action, prospect)
	default:
		return NewConfigurationError(fmt.Sprintf("unknown action kind %v", action.ActionKind))
	}
}

func (e *actionExecutorImpl) dispatchSendEmail(
	ctx context.Context, action data_models.ScheduledActionInfo, prospect data_models.ProspectContext,
) error {
	if action.EmailTemplateId == nil {
		return NewConfigurationError("SEND_EMAIL step without emailTemplateId")
	}
	if prospect.Email == nil || *prospect.Email == "" {
		return NewConfigurationError(fmt.Sprintf("prospect %v has no email address", prospect.ProspectId))
	}

	templateResp, err := e.store.GetEmailTemplate(ctx, *action.EmailTemplateId)
	if err != nil {
		return err
	}
	if templateResp.NotExists {
		return NewConfigurationError(fmt.Sprintf("email template %v does not exist", *action.EmailTemplateId))
	}

	renderCtx := RenderContext{Prospect: prospect}
	return e.messageSink.SendEmail(ctx, EmailMessage{
		ProspectId: prospect.ProspectId,
		To:         *prospect.Email,
		Subject:    RenderTemplate(templateResp.Subject, renderCtx),
		Body:       RenderTemplate(templateResp.Body, renderCtx),
		TemplateId: *action.EmailTemplateId,
	})
}

func (e *actionExecutorImpl) dispatchUpdateProspectStatus(
	ctx context.Context, action data_models.ScheduledActionInfo, prospect data_models.ProspectContext,
) error {
	if action.TargetStatus == nil {
		return NewConfigurationError("UPDATE_PROSPECT_STATUS step without targetStatus")
	}

	resp, err := e.store.UpdateProspectStatus(ctx, action.ProspectId, *action.TargetStatus)
	if err != nil {
		return err
	}
	if resp.NotExists {
		return NewConfigurationError(fmt.Sprintf("prospect %v does not exist", action.ProspectId))
	}

	// loop the status write back into the matcher so that sequences
	// triggering on the target status start, same as a CRM-originated write
	loopbackErr := e.matcher.ProcessStateChangeEvent(ctx, apis.StateChangeEvent{
		ProspectId:     action.ProspectId,
		PreviousStatus: resp.PreviousStatus,
		NewStatus:      *action.TargetStatus,
		OccurredAt:     e.timeSource.Now(),
	})
	if loopbackErr != nil {
		// the status write itself succeeded; the missed triggers are lost
		// until the prospect's status changes again
		e.logger.Error("failed to process loopback state change event",
			tag.Error(loopbackErr),
			tag.ProspectId(action.ProspectId),
			tag.ProspectStatus(*action.TargetStatus))
	}
	return nil
}

func (e *actionExecutorImpl) dispatchCreateTask(
	ctx context.Context, action data_models.ScheduledActionInfo, prospect data_models.ProspectContext,
) error {
	if action.TaskDescription == nil {
		return NewConfigurationError("CREATE_TASK step without taskDescription")
	}
	return e.taskSink.CreateTask(ctx, ProspectTask{
		ProspectId:   prospect.ProspectId,
		CommercialId: prospect.CommercialId,
		Description:  RenderTemplate(*action.TaskDescription, RenderContext{Prospect: prospect}),
	})
}

func (e *actionExecutorImpl) recordExecuted(
	ctx context.Context, action data_models.ScheduledActionInfo, attempt int32,
) error {
	err := e.store.CompleteScheduledAction(ctx, data_models.CompleteScheduledActionRequest{
		ActionId:      action.ActionId,
		Status:        apis.ActionStatusExecuted,
		ResultMessage: e.successMessage(action),
		AttemptCount:  attempt,
	})
	if err != nil {
		return err
	}
	e.logger.Info("action executed",
		tag.ActionId(action.ActionId),
		tag.ActionKind(string(action.ActionKind)),
		tag.ProspectId(action.ProspectId),
		tag.Attempt(attempt))
	return e.store.CompleteInstanceIfNoPendingActions(ctx, action.InstanceId)
}

func (e *actionExecutorImpl) recordFailed(
	ctx context.Context, action data_models.ScheduledActionInfo, attempt int32, message string,
) error {
	err := e.store.CompleteScheduledAction(ctx, data_models.CompleteScheduledActionRequest{
		ActionId:      action.ActionId,
		Status:        apis.ActionStatusFailed,
		ResultMessage: message,
		AttemptCount:  attempt,
	})
	if err != nil {
		return err
	}
	return e.store.CompleteInstanceIfNoPendingActions(ctx, action.InstanceId)
}

func (e *actionExecutorImpl) successMessage(action data_models.ScheduledActionInfo) string {
	switch action.ActionKind {
	case apis.ActionKindSendEmail:
		return resultEmailSent
	case apis.ActionKindUpdateProspectStatus:
		return fmt.Sprintf(resultStatusUpdated, *action.TargetStatus)
	case apis.ActionKindCreateTask:
		return resultTaskCreated
	default:
		return ""
	}
}
