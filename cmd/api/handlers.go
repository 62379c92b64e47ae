package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"irisops/internal/artifacts"
	"irisops/internal/audit"
	"irisops/internal/data"
	"irisops/internal/features"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "irisops_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "irisops_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"route"})

	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "irisops_predictions_total",
		Help: "Predicted species",
	}, []string{"species"})

	auditRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irisops_audit_rows_total",
		Help: "Rows checked by the label audit endpoint",
	})

	auditFlaggedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irisops_audit_flagged_total",
		Help: "Rows flagged as suspicious by the label audit endpoint",
	})
)

type server struct {
	bundle    *artifacts.Bundle
	apiKey    string
	auditOpts audit.Options
	logger    *zap.Logger
}

func (s *server) routes(r *gin.Engine, artifactsDir string) {
	r.Use(s.instrument)
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/artifacts", artifactsDir)

	api := r.Group("/")
	api.Use(s.apiKeyMiddleware)
	api.POST("/predict", s.handlePredict)
	api.POST("/batch", s.handleBatch)
	api.POST("/audit", s.handleAudit)
}

func (s *server) instrument(c *gin.Context) {
	start := time.Now()
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	s.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
	)
}

func (s *server) apiKeyMiddleware(c *gin.Context) {
	if s.apiKey == "" {
		c.Next()
		return
	}
	if c.GetHeader("X-API-Key") != s.apiKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *server) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok", "model_loaded": s.bundle != nil}
	if s.bundle != nil {
		body["model"] = s.bundle.Model.Name()
		body["trained_at"] = s.bundle.Metadata.TrainedAt
	}
	c.JSON(http.StatusOK, body)
}

type predictReq struct {
	SepalLength *float64 `json:"sepal_length" binding:"required"`
	SepalWidth  *float64 `json:"sepal_width" binding:"required"`
	PetalLength *float64 `json:"petal_length" binding:"required"`
	PetalWidth  *float64 `json:"petal_width" binding:"required"`
}

func (r predictReq) vector() []float64 {
	return features.Vectorize(data.Flower{
		SepalLength: *r.SepalLength,
		SepalWidth:  *r.SepalWidth,
		PetalLength: *r.PetalLength,
		PetalWidth:  *r.PetalWidth,
	})
}

type prediction struct {
	Species       string             `json:"species"`
	Probabilities map[string]float64 `json:"probabilities"`
	Model         string             `json:"model"`
}

func (s *server) predict(X [][]float64) []prediction {
	species := s.bundle.Predict(X)
	proba := s.bundle.Model.PredictProba(X)
	out := make([]prediction, len(X))
	for i := range X {
		probs := map[string]float64{}
		for c, p := range proba[i] {
			if c < len(s.bundle.Encoder.Classes) {
				probs[s.bundle.Encoder.Classes[c]] = p
			}
		}
		out[i] = prediction{Species: species[i], Probabilities: probs, Model: s.bundle.Model.Name()}
		predictionsTotal.WithLabelValues(species[i]).Inc()
	}
	return out
}

func (s *server) handlePredict(c *gin.Context) {
	if s.bundle == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no model loaded"})
		return
	}
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.predict([][]float64{req.vector()})[0])
}

func (s *server) handleBatch(c *gin.Context) {
	if s.bundle == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no model loaded"})
		return
	}
	var items []predictReq
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	X := make([][]float64, len(items))
	for i, it := range items {
		if it.SepalLength == nil || it.SepalWidth == nil || it.PetalLength == nil || it.PetalWidth == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item " + strconv.Itoa(i) + ": all four measurements are required"})
			return
		}
		X[i] = it.vector()
	}
	c.JSON(http.StatusOK, s.predict(X))
}

// auditReq carries a feature matrix with one label per row. K and Threshold
// fall back to the server defaults when omitted.
type auditReq struct {
	Features  [][]float64 `json:"features" binding:"required"`
	Labels    []string    `json:"labels" binding:"required"`
	K         *int        `json:"k"`
	Threshold *float64    `json:"threshold"`
}

func (s *server) handleAudit(c *gin.Context) {
	var req auditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts := s.auditOpts
	if req.K != nil {
		opts.K = *req.K
	}
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}
	rep, err := audit.FindSuspicious(req.Features, req.Labels, opts)
	switch {
	case errors.Is(err, audit.ErrSchemaMismatch), errors.Is(err, audit.ErrInvalidParameter):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("audit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit failed"})
		return
	}
	auditRowsTotal.Add(float64(rep.Total))
	auditFlaggedTotal.Add(float64(rep.Flagged()))
	c.JSON(http.StatusOK, rep)
}
