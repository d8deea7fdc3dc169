// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package data_models

// ProspectContext is the read-only projection of a prospect and its assigned
// commercial, used for template rendering and for applying step effects.
// The CRM layer owns these records; the engine only reads them, except for
// the status field written by UPDATE_PROSPECT_STATUS steps.
type ProspectContext struct {
	ProspectId   string
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	Status       string
	CommercialId string
	// assigned commercial (owner) projection
	CommercialFullName string
	CommercialEmail    string
}

type GetProspectContextResponse struct {
	NotExists bool
	Prospect  ProspectContext
}

type GetEmailTemplateResponse struct {
	NotExists bool
	Subject   string
	Body      string
}

type UpdateProspectStatusResponse struct {
	NotExists bool
	// PreviousStatus is the status before this update, used for the loopback
	// state-change event
	PreviousStatus string
}
