// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"context"

	"github.com/premunia/automation/persistence/data_models"
)

func (p sqlAutomationStoreImpl) GetProspectContext(
	ctx context.Context, prospectId string,
) (*data_models.GetProspectContextResponse, error) {
	row, err := p.session.SelectProspectContext(ctx, prospectId)
	if err != nil {
		if p.session.IsNotFoundError(err) {
			return &data_models.GetProspectContextResponse{
				NotExists: true,
			}, nil
		}
		return nil, err
	}

	return &data_models.GetProspectContextResponse{
		Prospect: data_models.ProspectContext{
			ProspectId:         row.ProspectId,
			FirstName:          row.FirstName,
			LastName:           row.LastName,
			Email:              nullStringToPtr(row.Email),
			Phone:              nullStringToPtr(row.Phone),
			Status:             row.Status,
			CommercialId:       row.CommercialId,
			CommercialFullName: row.CommercialFullName,
			CommercialEmail:    row.CommercialEmail,
		},
	}, nil
}

func (p sqlAutomationStoreImpl) UpdateProspectStatus(
	ctx context.Context, prospectId string, newStatus string,
) (*data_models.UpdateProspectStatusResponse, error) {
	previousStatus, err := p.session.UpdateProspectStatus(ctx, prospectId, newStatus)
	if err != nil {
		if p.session.IsNotFoundError(err) {
			return &data_models.UpdateProspectStatusResponse{
				NotExists: true,
			}, nil
		}
		return nil, err
	}
	if previousStatus == nil {
		return &data_models.UpdateProspectStatusResponse{
			NotExists: true,
		}, nil
	}

	return &data_models.UpdateProspectStatusResponse{
		PreviousStatus: *previousStatus,
	}, nil
}

func (p sqlAutomationStoreImpl) GetEmailTemplate(
	ctx context.Context, templateId string,
) (*data_models.GetEmailTemplateResponse, error) {
	row, err := p.session.SelectEmailTemplate(ctx, templateId)
	if err != nil {
		if p.session.IsNotFoundError(err) {
			return &data_models.GetEmailTemplateResponse{
				NotExists: true,
			}, nil
		}
		return nil, err
	}

	return &data_models.GetEmailTemplateResponse{
		Subject: row.Subject,
		Body:    row.Body,
	}, nil
}
