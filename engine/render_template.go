// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"regexp"

	"github.com/premunia/automation/persistence/data_models"
)

// placeholders look like {{prospect.firstName}} or {{ commercial.fullName }}
var placeholderRegexp = regexp.MustCompile(`\{\{\s*([a-zA-Z]+)\.([a-zA-Z]+)\s*\}\}`)

// RenderContext carries the values the two template scopes resolve against
type RenderContext struct {
	Prospect data_models.ProspectContext
}

// RenderTemplate substitutes {{scope.field}} placeholders in the template
// text. Unknown scopes or fields are left verbatim so that a typo in a
// template is visible in the delivered message instead of silently dropped.
// Rendering is pure: no I/O, no side effects, same input same output.
func RenderTemplate(text string, renderCtx RenderContext) string {
	return placeholderRegexp.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholderRegexp.FindStringSubmatch(match)
		scope, field := groups[1], groups[2]
		value, ok := resolvePlaceholder(renderCtx, scope, field)
		if !ok {
			return match
		}
		return value
	})
}

func resolvePlaceholder(renderCtx RenderContext, scope, field string) (string, bool) {
	prospect := renderCtx.Prospect
	switch scope {
	case "prospect":
		switch field {
		case "firstName":
			return prospect.FirstName, true
		case "lastName":
			return prospect.LastName, true
		case "fullName":
			return prospect.FirstName + " " + prospect.LastName, true
		case "email":
			if prospect.Email == nil {
				return "", true
			}
			return *prospect.Email, true
		case "phone":
			if prospect.Phone == nil {
				return "", true
			}
			return *prospect.Phone, true
		case "status":
			return prospect.Status, true
		}
	case "commercial":
		switch field {
		case "fullName":
			return prospect.CommercialFullName, true
		case "email":
			return prospect.CommercialEmail, true
		}
	}
	return "", false
}
