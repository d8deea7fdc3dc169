// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/httperror"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/engine"
	"github.com/premunia/automation/service/async"
)

// remoteDueActionNotifier wakes the async service's sweep loop through its
// internal notify endpoint. Best effort: on failure the next poll interval
// picks the new actions up anyway.
type remoteDueActionNotifier struct {
	cfg    config.Config
	logger log.Logger
}

func newRemoteDueActionNotifier(cfg config.Config, logger log.Logger) engine.DueActionNotifier {
	return &remoteDueActionNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

func (n *remoteDueActionNotifier) NotifyDueActions(request apis.NotifyDueActionsRequest) {
	// execute in the background as best effort
	go func() {
		url := n.cfg.AsyncService.ClientAddress + async.PathNotifyDueActions
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		body, err := json.Marshal(request)
		if err != nil {
			n.logger.Error("failed to encode notify request", tag.Error(err))
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			n.logger.Error("failed to create request to notify due actions",
				tag.Value(url), tag.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if resp != nil {
			defer resp.Body.Close()
		}
		if httperror.CheckHttpResponseAndError(err, resp, n.logger) {
			n.logger.Error("failed to notify due actions, the sweep will pick them up on the next poll",
				tag.Value(url), tag.Error(err))
		}
	}()
}
