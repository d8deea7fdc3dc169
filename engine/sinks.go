// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"

	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
)

// loggingMessageSink is the default outbound email implementation: it logs
// the rendered message instead of delivering it. Deployments plug a real
// provider in through the MessageSink interface.
type loggingMessageSink struct {
	logger log.Logger
}

func NewLoggingMessageSink(logger log.Logger) MessageSink {
	return &loggingMessageSink{logger: logger}
}

func (s *loggingMessageSink) SendEmail(_ context.Context, message EmailMessage) error {
	s.logger.Info("sending email",
		tag.ProspectId(message.ProspectId),
		tag.TemplateId(message.TemplateId),
		tag.Message(message.Subject))
	return nil
}

// loggingTaskSink only logs: the commercial dashboards read pending
// CREATE_TASK actions straight from scheduled_actions, so no extra record
// is needed.
type loggingTaskSink struct {
	logger log.Logger
}

func NewLoggingTaskSink(logger log.Logger) TaskSink {
	return &loggingTaskSink{logger: logger}
}

func (s *loggingTaskSink) CreateTask(_ context.Context, task ProspectTask) error {
	s.logger.Info("creating follow-up task",
		tag.ProspectId(task.ProspectId),
		tag.ID(task.CommercialId),
		tag.Message(task.Description))
	return nil
}
