// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/config"
)

type ginHandler struct {
	config config.Config
	logger log.Logger
	svc    Service
}

func newGinHandler(cfg config.Config, svc Service, logger log.Logger) *ginHandler {
	return &ginHandler{
		config: cfg,
		logger: logger,
		svc:    svc,
	}
}

func (h *ginHandler) NotifyDueActions(c *gin.Context) {
	var req apis.NotifyDueActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}

	err := h.svc.NotifyPollingDueActions(req)
	if err != nil {
		invalidRequestForError(c, err)
		return
	}

	successRespond(c)
}

func successRespond(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]string{
		"message": "success",
	})
}

func invalidRequestSchema(c *gin.Context) {
	c.JSON(http.StatusBadRequest, apis.ApiErrorResponse{
		Detail: ptr.Any("invalid request schema"),
	})
}

func invalidRequestForError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, apis.ApiErrorResponse{
		Detail: ptr.Any(err.Error()),
	})
}
