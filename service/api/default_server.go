// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/config"
	"github.com/premunia/automation/persistence"
)

const PathProcessEvent = "/api/v1/automation/event"
const PathCreateSequence = "/api/v1/automation/sequence/create"
const PathDescribeSequence = "/api/v1/automation/sequence/describe"
const PathListSequences = "/api/v1/automation/sequence/list"
const PathUpdateSequenceStatus = "/api/v1/automation/sequence/update-status"
const PathCancel = "/api/v1/automation/cancel"
const PathHistory = "/api/v1/automation/history"

type defaultSever struct {
	rootCtx    context.Context
	cfg        config.Config
	logger     log.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

func NewDefaultAPIServerWithGin(
	rootCtx context.Context, cfg config.Config, store persistence.AutomationStore, logger log.Logger,
) Server {
	engine := gin.Default()

	handler := newGinHandler(cfg, store, logger)

	engine.POST(PathProcessEvent, handler.ProcessEvent)
	engine.POST(PathCreateSequence, handler.CreateSequence)
	engine.POST(PathDescribeSequence, handler.DescribeSequence)
	engine.POST(PathListSequences, handler.ListSequences)
	engine.POST(PathUpdateSequenceStatus, handler.UpdateSequenceStatus)
	engine.POST(PathCancel, handler.Cancel)
	engine.POST(PathHistory, handler.History)

	svrCfg := cfg.ApiService.HttpServer
	httpServer := &http.Server{
		Addr:              svrCfg.Address,
		ReadTimeout:       svrCfg.ReadTimeout,
		WriteTimeout:      svrCfg.WriteTimeout,
		ReadHeaderTimeout: svrCfg.ReadHeaderTimeout,
		IdleTimeout:       svrCfg.IdleTimeout,
		MaxHeaderBytes:    svrCfg.MaxHeaderBytes,
		TLSConfig:         svrCfg.TLSConfig,
		Handler:           engine,
		BaseContext: func(listener net.Listener) context.Context {
			// for graceful shutdown
			return rootCtx
		},
	}

	return &defaultSever{
		rootCtx:    rootCtx,
		cfg:        cfg,
		logger:     logger,
		engine:     engine,
		httpServer: httpServer,
	}
}

func (s defaultSever) Start() error {
	go func() {
		err := s.httpServer.ListenAndServe()
		s.logger.Info("Http Server for API service is closed", tag.Error(err))
	}()

	return nil
}

func (s defaultSever) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
