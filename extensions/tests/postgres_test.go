// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package tests

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/extensions"
	"github.com/premunia/automation/extensions/postgres"
	"github.com/premunia/automation/extensions/postgres/postgrestool"
	"github.com/premunia/automation/persistence/sql"
)

// requires a local postgres, run with AUTOMATION_TEST_POSTGRES=true
func TestPostgres(t *testing.T) {
	if os.Getenv("AUTOMATION_TEST_POSTGRES") == "" {
		t.Skip("AUTOMATION_TEST_POSTGRES is not set")
	}

	testDBName := fmt.Sprintf("test%v", time.Now().UnixNano())
	fmt.Println("using database name ", testDBName)

	sqlConfig := &config.SQL{
		ConnectAddr:     fmt.Sprintf("%v:%v", postgrestool.DefaultEndpoint, postgrestool.DefaultPort),
		User:            postgrestool.DefaultUserName,
		Password:        postgrestool.DefaultPassword,
		DBExtensionName: postgres.ExtensionName,
		DatabaseName:    testDBName,
	}
	ass := assert.New(t)

	err := extensions.CreateDatabase(*sqlConfig, testDBName)
	ass.Nil(err)

	err = extensions.SetupSchema(sqlConfig, "../postgres/schema/automation_tables.sql")
	ass.Nil(err)

	store, err := sql.NewSQLAutomationStore(*sqlConfig, log.NewDevelopmentLogger())
	ass.Nil(err)

	testSQLAutomationStore(ass, store)

	ass.Nil(store.Close())
	_ = extensions.DropDatabase(*sqlConfig, testDBName)
	fmt.Println("testing database deleted")
}
