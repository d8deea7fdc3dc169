// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package async

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

const PathNotifyDueActions = "/api/v1/automation/internal/notify"

type defaultSever struct {
	rootCtx context.Context
	cfg     config.Config
	logger  log.Logger

	engine     *gin.Engine
	httpServer *http.Server
	svc        Service
}

func NewDefaultAsyncServerWithGin(
	rootCtx context.Context, cfg config.Config, store persistence.AutomationStore, logger log.Logger,
) Server {
	engine := gin.Default()

	svc := NewAsyncServiceImpl(rootCtx, store, cfg, logger)

	handler := newGinHandler(cfg, svc, logger)

	engine.POST(PathNotifyDueActions, handler.NotifyDueActions)

	svrCfg := cfg.AsyncService.InternalHttpServer
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
		svc:        svc,
	}
}

func (s defaultSever) Start() error {
	err := s.svc.Start()
	if err != nil {
		return err
	}

	go func() {
		err := s.httpServer.ListenAndServe()
		s.logger.Info("Http Server for async service is closed", tag.Error(err))
	}()

	return nil
}

func (s defaultSever) Stop(ctx context.Context) error {
	err1 := s.httpServer.Shutdown(ctx)
	err2 := s.svc.Stop(ctx)
	if err1 != nil {
		return err1
	}
	return err2
}
