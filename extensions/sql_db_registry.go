// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"fmt"

	"github.com/premunia/automation/config"
)

var sqlRegistry = map[string]SQLDBExtension{}

// RegisterSQLDBExtension will register a SQL extension
func RegisterSQLDBExtension(name string, ext SQLDBExtension) {
	if _, ok := sqlRegistry[name]; ok {
		panic("SQL extension " + name + " already registered")
	}
	sqlRegistry[name] = ext
}

// NewSQLSession returns a regular session
func NewSQLSession(cfg *config.SQL) (SQLDBSession, error) {
	ext, ok := sqlRegistry[cfg.DBExtensionName]

	if !ok {
		return nil, fmt.Errorf("not supported SQLDBExtensionName %v, only supported: %v", cfg.DBExtensionName, sqlRegistry)
	}

	return ext.StartDBSession(cfg)
}

// NewSQLAdminSession returns a AdminDB
func NewSQLAdminSession(cfg *config.SQL) (SQLAdminDBSession, error) {
	ext, ok := sqlRegistry[cfg.DBExtensionName]

	if !ok {
		return nil, fmt.Errorf("not supported SQLDBExtensionName %v, only supported: %v", cfg.DBExtensionName, sqlRegistry)
	}

	return ext.StartAdminDBSession(cfg)
}

// GetSQLDBExtension returns the registered extension, for error checking
func GetSQLDBExtension(name string) (SQLDBExtension, error) {
	ext, ok := sqlRegistry[name]
	if !ok {
		return nil, fmt.Errorf("not supported SQLDBExtensionName %v", name)
	}
	return ext, nil
}
