// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package sql

import (
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/extensions"
	"github.com/premunia/automation/persistence"
)

type sqlAutomationStoreImpl struct {
	session extensions.SQLDBSession
	logger  log.Logger
}

func NewSQLAutomationStore(sqlConfig config.SQL, logger log.Logger) (persistence.AutomationStore, error) {
	session, err := extensions.NewSQLSession(&sqlConfig)
	return &sqlAutomationStoreImpl{
		session: session,
		logger:  logger,
	}, err
}

func (p sqlAutomationStoreImpl) Close() error {
	return p.session.Close()
}

func (p sqlAutomationStoreImpl) rollbackOnError(tx extensions.SQLTransaction) {
	err := tx.Rollback()
	if err != nil {
		p.logger.Error("error on rollback transaction", tag.Error(err))
	}
}
