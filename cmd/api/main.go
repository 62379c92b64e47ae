package main

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"irisops/internal/artifacts"
	"irisops/internal/audit"
	"irisops/internal/config"
	"irisops/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	var bundle *artifacts.Bundle
	if b, err := artifacts.LoadBundle(cfg.Paths.Model); err != nil {
		logger.Warn("no model loaded, /predict and /batch will answer 503", zap.String("path", cfg.Paths.Model), zap.Error(err))
	} else {
		bundle = b
		logger.Info("model loaded",
			zap.String("path", cfg.Paths.Model),
			zap.String("model", b.Model.Name()),
			zap.Time("trained_at", b.Metadata.TrainedAt),
		)
	}

	s := &server{
		bundle:    bundle,
		apiKey:    cfg.Server.APIKey,
		auditOpts: audit.Options{K: cfg.Audit.K, Threshold: cfg.Audit.Threshold},
		logger:    logger,
	}
	r := gin.New()
	r.Use(gin.Recovery())
	s.routes(r, cfg.Paths.Artifacts)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	logger.Info("listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
