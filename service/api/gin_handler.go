// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/common/ptr"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/persistence"
)

type ginHandler struct {
	config config.Config
	logger log.Logger
	svc    Service
}

func newGinHandler(cfg config.Config, store persistence.AutomationStore, logger log.Logger) *ginHandler {
	svc := NewServiceImpl(cfg, store, logger)
	return &ginHandler{
		config: cfg,
		logger: logger,
		svc:    svc,
	}
}

func (h *ginHandler) ProcessEvent(c *gin.Context) {
	var req apis.StateChangeEvent
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}
	h.logger.Debug("received ProcessEvent API request", tag.Value(h.toJson(req)))

	errResp := h.svc.ProcessEvent(c.Request.Context(), req)
	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, map[string]string{"message": "success"})
}

func (h *ginHandler) CreateSequence(c *gin.Context) {
	var req apis.SequenceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}
	h.logger.Debug("received CreateSequence API request", tag.Value(h.toJson(req)))

	resp, errResp := h.svc.CreateSequence(c.Request.Context(), req)
	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) DescribeSequence(c *gin.Context) {
	var req apis.SequenceDescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}
	h.logger.Debug("received DescribeSequence API request", tag.Value(h.toJson(req)))

	resp, errResp := h.svc.DescribeSequence(c.Request.Context(), req)
	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) ListSequences(c *gin.Context) {
	resp, errResp := h.svc.ListSequences(c.Request.Context())
	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) UpdateSequenceStatus(c *gin.Context) {
	var req apis.SequenceUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}
	h.logger.Debug("received UpdateSequenceStatus API request", tag.Value(h.toJson(req)))

	errResp := h.svc.UpdateSequenceStatus(c.Request.Context(), req)
	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, map[string]string{"message": "success"})
}

func (h *ginHandler) Cancel(c *gin.Context) {
	var req apis.AutomationCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}
	h.logger.Debug("received Cancel API request", tag.Value(h.toJson(req)))

	resp, errResp := h.svc.Cancel(c.Request.Context(), req)
	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) History(c *gin.Context) {
	var req apis.AutomationHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}
	h.logger.Debug("received History API request", tag.Value(h.toJson(req)))

	resp, errResp := h.svc.History(c.Request.Context(), req)
	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) toJson(req any) string {
	str, err := json.Marshal(req)
	if err != nil {
		h.logger.Error("error when serializing request", tag.Error(err), tag.DefaultValue(req))
		return ""
	}
	return string(str)
}

func invalidRequestSchema(c *gin.Context) {
	c.JSON(http.StatusBadRequest, apis.ApiErrorResponse{
		Detail: ptr.Any("invalid request schema"),
	})
}
