// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/premunia/automation/cmd/server/bootstrap"

	_ "github.com/premunia/automation/extensions/postgres" // import postgres extension
)

func main() {
	app := &cli.App{
		Name:  "Premunia automation server",
		Usage: "start the lifecycle automation server",
		Action: func(c *cli.Context) error {
			bootstrap.StartAutomationServerCli(c)
			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  bootstrap.FlagConfig,
				Value: "./config/development-postgres.yaml",
				Usage: "the config to start the automation server",
			},
			&cli.StringFlag{
				Name:  bootstrap.FlagService,
				Value: fmt.Sprintf("%v,%v", bootstrap.ApiServiceName, bootstrap.AsyncServiceName),
				Usage: "the services to start, separated by comma",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
