// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package extensions

const (
	// CLIOptEndpoint is the cli option for endpoint
	CLIOptEndpoint = "endpoint"
	// CLIOptPort is the cli option for port
	CLIOptPort = "port"
	// CLIOptUser is the cli option for user
	CLIOptUser = "user"
	// CLIOptPassword is the cli option for password
	CLIOptPassword = "password"
	CLIOptDatabase = "database"
	CLIOptFile     = "file"

	// CLIFlagEndpoint is the cli flag for endpoint
	CLIFlagEndpoint = "endpoint"
	// CLIFlagPort is the cli flag for port
	CLIFlagPort = "port"
	// CLIFlagUser is the cli flag for user
	CLIFlagUser = "user"
	// CLIFlagPassword is the cli flag for password
	CLIFlagPassword = "password"
	CLIFlagDatabase = "database"
	CLIFlagFile     = "file"
)
