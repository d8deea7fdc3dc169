// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package httperror

import (
	"net/http"

	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
)

func CheckHttpResponseAndError(err error, httpResp *http.Response, logger log.Logger) bool {
	status := 0
	if httpResp != nil {
		status = httpResp.StatusCode
	}
	logger.Debug("check http response and error", tag.Error(err), tag.StatusCode(status))

	if err != nil || (httpResp != nil && httpResp.StatusCode != http.StatusOK) {
		return true
	}
	return false
}
