// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"context"

	"github.com/premunia/automation/apis"
)

type Server interface {
	// Start will start running on the background
	Start() error
	Stop(ctx context.Context) error
}

// Service is the async sweep service: the due-action poll loop, the worker
// pool executing actions, and the optional message queue consumer
type Service interface {
	Start() error
	NotifyPollingDueActions(request apis.NotifyDueActionsRequest) error
	Stop(ctx context.Context) error
}
