// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/engine"
)

// dueActionNotifierImpl wakes the local sweep queue. It implements
// engine.DueActionNotifier for components living in the same process as the
// async service; the API service reaches the queue through the internal
// notify endpoint instead.
type dueActionNotifierImpl struct {
	queue engine.SweepQueue
}

func newDueActionNotifierImpl() *dueActionNotifierImpl {
	return &dueActionNotifierImpl{}
}

func (n *dueActionNotifierImpl) SetSweepQueue(queue engine.SweepQueue) {
	n.queue = queue
}

func (n *dueActionNotifierImpl) NotifyDueActions(request apis.NotifyDueActionsRequest) {
	if n.queue == nil {
		// notification is best effort, the next poll interval covers it
		return
	}
	n.queue.TriggerPolling(request)
}
