// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package api

import "github.com/premunia/automation/apis"

type ErrorWithStatus struct {
	StatusCode int
	Error      apis.ApiErrorResponse
}

func NewErrorWithStatus(code int, details string) *ErrorWithStatus {
	return &ErrorWithStatus{
		StatusCode: code,
		Error: apis.ApiErrorResponse{
			Detail: &details,
		},
	}
}
