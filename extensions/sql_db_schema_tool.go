// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/premunia/automation/config"
)

// SetupSchemaByCli setup schema for a new database
func SetupSchemaByCli(cli *cli.Context, extensionName string) error {
	cfg, err := parseConnectConfig(cli, extensionName)
	if err != nil {
		return handleErr(err)
	}
	filePath := cli.String(CLIFlagFile)
	return handleErr(SetupSchema(cfg, filePath))
}

func SetupSchema(cfg *config.SQL, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading contents of file %v:%v", filePath, err.Error())
	}

	adminSession, err := NewSQLAdminSession(cfg)
	if err != nil {
		return err
	}
	defer adminSession.Close()

	return adminSession.ExecuteSchemaDDL(context.Background(), string(content))
}

// CreateDatabaseByCli creates a sql database
func CreateDatabaseByCli(cli *cli.Context, extensionName string) error {
	cfg, err := parseConnectConfig(cli, extensionName)
	if err != nil {
		return handleErr(err)
	}
	database := cli.String(CLIFlagDatabase)
	return handleErr(CreateDatabase(*cfg, database))
}

func CreateDatabase(cfg config.SQL, name string) error {
	// the database itself does not exist yet, connect with the extension's
	// default admin database instead
	cfg.DatabaseName = ""

	adminSession, err := NewSQLAdminSession(&cfg)
	if err != nil {
		return err
	}
	defer adminSession.Close()
	return adminSession.CreateDatabase(context.Background(), name)
}

func DropDatabase(cfg config.SQL, name string) error {
	cfg.DatabaseName = "" // all connections must be closed before deleting a postgres database
	adminSession, err := NewSQLAdminSession(&cfg)
	if err != nil {
		return err
	}
	defer adminSession.Close()
	return adminSession.DropDatabase(context.Background(), name)
}

func parseConnectConfig(cli *cli.Context, extensionName string) (*config.SQL, error) {
	cfg := new(config.SQL)

	host := cli.String(CLIFlagEndpoint)
	port := cli.Int(CLIFlagPort)
	cfg.ConnectAddr = fmt.Sprintf("%s:%v", host, port)
	cfg.User = cli.String(CLIFlagUser)
	cfg.Password = cli.String(CLIFlagPassword)
	cfg.DatabaseName = cli.String(CLIFlagDatabase)
	cfg.DBExtensionName = extensionName

	if err := ValidateConnectConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateConnectConfig validates params
func ValidateConnectConfig(cfg *config.SQL) error {
	host, _, err := net.SplitHostPort(cfg.ConnectAddr)
	if err != nil {
		return fmt.Errorf("invalid host and port %v", cfg.ConnectAddr)
	}
	if len(host) == 0 {
		return fmt.Errorf("missing sql endpoint argument %v", flag(CLIFlagEndpoint))
	}
	if cfg.DatabaseName == "" {
		return fmt.Errorf("missing %v argument", flag(CLIFlagDatabase))
	}
	return nil
}

func flag(opt string) string {
	return "(-" + opt + ")"
}

func handleErr(err error) error {
	if err != nil {
		log.Println(err)
	}
	return err
}
