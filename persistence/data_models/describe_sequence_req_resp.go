// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package data_models

import "github.com/premunia/automation/apis"

type DescribeSequenceResponse struct {
	NotExists bool
	// Sequence carries the definition with steps ordered by executionOrder
	Sequence apis.SequenceDefinition
}

type CreateSequenceRequest struct {
	SequenceId string
	Definition apis.SequenceCreateRequest
}
