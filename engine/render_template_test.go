// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/persistence/data_models"
)

func testRenderContext() RenderContext {
	return RenderContext{
		Prospect: data_models.ProspectContext{
			ProspectId:         "prospect-1",
			FirstName:          "Marie",
			LastName:           "Martin",
			Email:              ptr.Any("marie.martin@example.fr"),
			Status:             "Nouveau",
			CommercialId:       "commercial-1",
			CommercialFullName: "Jean Dupont",
			CommercialEmail:    "jean.dupont@premunia.fr",
		},
	}
}

func TestRenderTemplateSubstitutesBothScopes(t *testing.T) {
	rendered := RenderTemplate(
		"Bonjour {{prospect.firstName}}, je suis {{commercial.fullName}}.", testRenderContext())
	assert.Equal(t, "Bonjour Marie, je suis Jean Dupont.", rendered)
}

func TestRenderTemplateToleratesWhitespace(t *testing.T) {
	rendered := RenderTemplate("{{ prospect.firstName }} {{ prospect.lastName }}", testRenderContext())
	assert.Equal(t, "Marie Martin", rendered)
}

func TestRenderTemplateLeavesUnknownPlaceholdersVerbatim(t *testing.T) {
	rendered := RenderTemplate(
		"{{prospect.firstName}} {{prospect.unknownField}} {{unknownScope.name}}", testRenderContext())
	assert.Equal(t, "Marie {{prospect.unknownField}} {{unknownScope.name}}", rendered)
}

func TestRenderTemplateNilOptionalFieldsRenderEmpty(t *testing.T) {
	renderCtx := testRenderContext()
	renderCtx.Prospect.Phone = nil
	rendered := RenderTemplate("tel: {{prospect.phone}}", renderCtx)
	assert.Equal(t, "tel: ", rendered)
}

func TestRenderTemplateIsIdempotent(t *testing.T) {
	once := RenderTemplate("Bonjour {{prospect.firstName}}", testRenderContext())
	twice := RenderTemplate(once, testRenderContext())
	assert.Equal(t, once, twice)
}

func TestRenderTemplateNoPlaceholders(t *testing.T) {
	text := "Cordialement, l'équipe Premunia"
	assert.Equal(t, text, RenderTemplate(text, testRenderContext()))
}
