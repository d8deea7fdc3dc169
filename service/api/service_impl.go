// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/common/uuid"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/engine"
	"github.com/premunia/automation/persistence"
	"github.com/premunia/automation/persistence/data_models"
)

type serviceImpl struct {
	cfg          config.Config
	store        persistence.AutomationStore
	matcher      engine.TriggerMatcher
	cancellation engine.CancellationManager
	logger       log.Logger
}

func NewServiceImpl(cfg config.Config, store persistence.AutomationStore, logger log.Logger) Service {
	notifier := newRemoteDueActionNotifier(cfg, logger)
	return &serviceImpl{
		cfg:          cfg,
		store:        store,
		matcher:      engine.NewTriggerMatcher(store, notifier, logger),
		cancellation: engine.NewCancellationManager(store, logger),
		logger:       logger,
	}
}

func (s serviceImpl) ProcessEvent(
	ctx context.Context, request apis.StateChangeEvent,
) *ErrorWithStatus {
	if request.ProspectId == "" || request.NewStatus == "" {
		return NewErrorWithStatus(http.StatusBadRequest, "prospectId and newStatus are required")
	}
	if request.OccurredAt.IsZero() {
		request.OccurredAt = time.Now()
	}

	err := s.matcher.ProcessStateChangeEvent(ctx, request)
	if err != nil {
		return s.handleUnknownError(err)
	}
	return nil
}

func (s serviceImpl) CreateSequence(
	ctx context.Context, request apis.SequenceCreateRequest,
) (*apis.SequenceCreateResponse, *ErrorWithStatus) {
	if err := engine.ValidateSequence(request); err != nil {
		return nil, NewErrorWithStatus(http.StatusBadRequest, err.Error())
	}

	sequenceId := uuid.MustNewUUID()
	for i := range request.Steps {
		request.Steps[i].StepId = uuid.MustNewUUID()
	}

	err := s.store.CreateSequence(ctx, data_models.CreateSequenceRequest{
		SequenceId: sequenceId,
		Definition: request,
	})
	if err != nil {
		return nil, s.handleUnknownError(err)
	}

	s.logger.Info("created automation sequence",
		tag.SequenceId(sequenceId),
		tag.SequenceName(request.Name),
		tag.ProspectStatus(request.TriggerStatus))
	return &apis.SequenceCreateResponse{
		SequenceId: sequenceId,
	}, nil
}

func (s serviceImpl) DescribeSequence(
	ctx context.Context, request apis.SequenceDescribeRequest,
) (*apis.SequenceDefinition, *ErrorWithStatus) {
	resp, err := s.store.DescribeSequence(ctx, request.SequenceId)
	if err != nil {
		return nil, s.handleUnknownError(err)
	}
	if resp.NotExists {
		return nil, NewErrorWithStatus(http.StatusNotFound, "Sequence does not exist")
	}
	return &resp.Sequence, nil
}

func (s serviceImpl) ListSequences(ctx context.Context) (*apis.SequenceListResponse, *ErrorWithStatus) {
	sequences, err := s.store.ListSequences(ctx)
	if err != nil {
		return nil, s.handleUnknownError(err)
	}
	return &apis.SequenceListResponse{
		Sequences: sequences,
	}, nil
}

func (s serviceImpl) UpdateSequenceStatus(
	ctx context.Context, request apis.SequenceUpdateStatusRequest,
) *ErrorWithStatus {
	resp, err := s.store.DescribeSequence(ctx, request.SequenceId)
	if err != nil {
		return s.handleUnknownError(err)
	}
	if resp.NotExists {
		return NewErrorWithStatus(http.StatusNotFound, "Sequence does not exist")
	}

	// deactivation only stops new triggers; instances already started run on
	err = s.store.UpdateSequenceIsActive(ctx, request.SequenceId, request.IsActive)
	if err != nil {
		return s.handleUnknownError(err)
	}
	return nil
}

func (s serviceImpl) Cancel(
	ctx context.Context, request apis.AutomationCancelRequest,
) (*apis.AutomationCancelResponse, *ErrorWithStatus) {
	if request.ProspectId == "" || request.SequenceId == "" {
		return nil, NewErrorWithStatus(http.StatusBadRequest, "prospectId and sequenceId are required")
	}

	cancelled, err := s.cancellation.CancelInstance(
		ctx, request.ProspectId, request.SequenceId, apis.CancelReasonUser)
	if err != nil {
		resp, perr := s.store.DescribeSequence(ctx, request.SequenceId)
		if perr == nil && !resp.NotExists {
			return nil, NewErrorWithStatus(http.StatusNotFound, err.Error())
		}
		return nil, NewErrorWithStatus(http.StatusNotFound, "Sequence does not exist")
	}
	return &apis.AutomationCancelResponse{
		CancelledActionCount: cancelled,
	}, nil
}

func (s serviceImpl) History(
	ctx context.Context, request apis.AutomationHistoryRequest,
) (*apis.AutomationHistoryResponse, *ErrorWithStatus) {
	if request.ProspectId == "" {
		return nil, NewErrorWithStatus(http.StatusBadRequest, "prospectId is required")
	}
	actions, err := s.store.GetAutomationHistory(ctx, request.ProspectId)
	if err != nil {
		return nil, s.handleUnknownError(err)
	}
	return &apis.AutomationHistoryResponse{
		Actions: actions,
	}, nil
}

func (s serviceImpl) handleUnknownError(err error) *ErrorWithStatus {
	s.logger.Error("unknown error on operation", tag.Error(err))
	return NewErrorWithStatus(http.StatusInternalServerError, err.Error())
}
