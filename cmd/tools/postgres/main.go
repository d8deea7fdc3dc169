// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log"
	"os"

	"github.com/premunia/automation/extensions/postgres/postgrestool"
)

func main() {
	app := postgrestool.BuildCLIOptions()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
