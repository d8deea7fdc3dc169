// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package data_models

import "github.com/premunia/automation/apis"

// CancelPendingInstanceRequest cancels the pending instance (if any) of one
// sequence for one prospect: every PENDING action flips to the cancelled
// status matching Reason; claimed or terminal actions are untouched.
type CancelPendingInstanceRequest struct {
	ProspectId string
	SequenceId string
	Reason     apis.CancelReason
}

type CancelPendingInstanceResponse struct {
	// NotExists is true when no pending instance was found
	NotExists            bool
	InstanceId           string
	CancelledActionCount int
}
