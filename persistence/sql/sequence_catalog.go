// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"context"
	"fmt"
	"time"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/extensions"
	"github.com/premunia/automation/persistence/data_models"
)

func (p sqlAutomationStoreImpl) CreateSequence(
	ctx context.Context, request data_models.CreateSequenceRequest,
) error {
	tx, err := p.session.StartTransaction(ctx)
	if err != nil {
		return err
	}

	err = p.doCreateSequenceTx(ctx, tx, request)
	if err != nil {
		p.rollbackOnError(tx)
		return err
	}
	return tx.Commit()
}

func (p sqlAutomationStoreImpl) doCreateSequenceTx(
	ctx context.Context, tx extensions.SQLTransaction, request data_models.CreateSequenceRequest,
) error {
	def := request.Definition
	_, err := tx.InsertSequence(ctx, extensions.AutomationSequenceRow{
		SequenceId:    request.SequenceId,
		Name:          def.Name,
		TriggerStatus: def.TriggerStatus,
		IsActive:      def.IsActive,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		return err
	}

	for _, step := range def.Steps {
		_, err = tx.InsertSequenceStep(ctx, extensions.SequenceStepRow{
			StepId:          step.StepId,
			SequenceId:      request.SequenceId,
			ExecutionOrder:  step.ExecutionOrder,
			DelayDays:       step.DelayDays,
			ActionKind:      string(step.ActionKind),
			EmailTemplateId: ptrToNullString(step.EmailTemplateId),
			TargetStatus:    ptrToNullString(step.TargetStatus),
			TaskDescription: ptrToNullString(step.TaskDescription),
		})
		if err != nil {
			if p.session.IsDupEntryError(err) {
				return fmt.Errorf("duplicated execution order %v in sequence %v", step.ExecutionOrder, request.SequenceId)
			}
			return err
		}
	}
	return nil
}

func (p sqlAutomationStoreImpl) DescribeSequence(
	ctx context.Context, sequenceId string,
) (*data_models.DescribeSequenceResponse, error) {
	row, err := p.session.SelectSequenceById(ctx, sequenceId)
	if err != nil {
		if p.session.IsNotFoundError(err) {
			return &data_models.DescribeSequenceResponse{
				NotExists: true,
			}, nil
		}
		return nil, err
	}

	steps, err := p.session.SelectSequenceSteps(ctx, sequenceId)
	if err != nil {
		return nil, err
	}

	return &data_models.DescribeSequenceResponse{
		Sequence: fromSequenceRow(*row, steps),
	}, nil
}

func (p sqlAutomationStoreImpl) ListSequences(ctx context.Context) ([]apis.SequenceDefinition, error) {
	rows, err := p.session.SelectAllSequences(ctx)
	if err != nil {
		return nil, err
	}
	return p.attachSteps(ctx, rows)
}

func (p sqlAutomationStoreImpl) GetActiveSequencesByTriggerStatus(
	ctx context.Context, triggerStatus string,
) ([]apis.SequenceDefinition, error) {
	rows, err := p.session.SelectActiveSequencesByTriggerStatus(ctx, triggerStatus)
	if err != nil {
		return nil, err
	}
	return p.attachSteps(ctx, rows)
}

func (p sqlAutomationStoreImpl) attachSteps(
	ctx context.Context, rows []extensions.AutomationSequenceRow,
) ([]apis.SequenceDefinition, error) {
	var defs []apis.SequenceDefinition
	for _, row := range rows {
		steps, err := p.session.SelectSequenceSteps(ctx, row.SequenceId)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fromSequenceRow(row, steps))
	}
	return defs, nil
}

func (p sqlAutomationStoreImpl) UpdateSequenceIsActive(
	ctx context.Context, sequenceId string, isActive bool,
) error {
	result, err := p.session.UpdateSequenceIsActive(ctx, sequenceId, isActive)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("sequence %v does not exist", sequenceId)
	}
	return nil
}
