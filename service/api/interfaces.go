// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/premunia/automation/apis"
)

type Server interface {
	// Start will start running on the background
	Start() error
	Stop(ctx context.Context) error
}

// Service is the interface of the API service, decoupled from the REST
// server framework like Gin so that other frameworks can serve it too
type Service interface {
	ProcessEvent(ctx context.Context, request apis.StateChangeEvent) *ErrorWithStatus
	CreateSequence(ctx context.Context, request apis.SequenceCreateRequest) (
		resp *apis.SequenceCreateResponse, err *ErrorWithStatus)
	DescribeSequence(ctx context.Context, request apis.SequenceDescribeRequest) (
		resp *apis.SequenceDefinition, err *ErrorWithStatus)
	ListSequences(ctx context.Context) (resp *apis.SequenceListResponse, err *ErrorWithStatus)
	UpdateSequenceStatus(ctx context.Context, request apis.SequenceUpdateStatusRequest) *ErrorWithStatus
	Cancel(ctx context.Context, request apis.AutomationCancelRequest) (
		resp *apis.AutomationCancelResponse, err *ErrorWithStatus)
	History(ctx context.Context, request apis.AutomationHistoryRequest) (
		resp *apis.AutomationHistoryResponse, err *ErrorWithStatus)
}
