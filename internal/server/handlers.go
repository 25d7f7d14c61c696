package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/builtins"
	"github.com/GriffinCanCode/scriptbridge/internal/host/gojahost"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/scriptbridge/internal/plugin"
	"github.com/GriffinCanCode/scriptbridge/internal/shared/id"
)

// MaxScriptBytes bounds the script accepted by /eval and the console
const MaxScriptBytes = 64 << 10

// EvalRequest is the body of POST /eval
type EvalRequest struct {
	Script string `json:"script" binding:"required"`
}

// EvalResponse reports a script run
type EvalResponse struct {
	ID       string              `json:"id"`
	Value    interface{}         `json:"value"`
	Console  []gojahost.LogEntry `json:"console"`
	Duration float64             `json:"duration_ms"`
	Error    string              `json:"error,omitempty"`
}

func (s *Server) routes() {
	r := s.router

	r.GET("/", s.root)
	r.GET("/health", s.health)

	r.GET("/classes", s.classes)
	r.GET("/graph", s.graph)
	r.POST("/eval", s.eval)
	r.GET("/console", s.console)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	r.GET("/metrics/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.metrics.Snapshot())
	})
}

func (s *Server) root(c *gin.Context) {
	m := s.plugin.Manifest()
	c.JSON(http.StatusOK, gin.H{
		"status":      "online",
		"name":        m.Name,
		"description": m.Description,
		"mime":        s.plugin.MIMEDescription(),
		"version":     builtins.Version,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"pool":    s.pool.Stats(),
		"classes": s.plugin.Registry().Stats(),
	})
}

func (s *Server) classes(c *gin.Context) {
	reg := s.plugin.Registry()
	out := make([]gin.H, 0)
	for _, name := range reg.List() {
		class, _ := reg.Get(name)
		out = append(out, gin.H{
			"name":        class.Name,
			"methods":     class.MethodNames(),
			"properties":  class.PropertyNames(),
			"constructor": class.Constructor != nil,
		})
	}
	c.JSON(http.StatusOK, gin.H{"classes": out})
}

// graph renders the namespace tree a new instance would get
func (s *Server) graph(c *gin.Context) {
	root, err := plugin.Assemble(s.plugin.Manifest(), s.plugin.Registry())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	data, err := sonic.Marshal(bridge.Describe(root))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) eval(c *gin.Context) {
	var req EvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Script) > MaxScriptBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "script too large"})
		return
	}

	reqID := id.NewRequestID()
	timer := monitoring.NewTimer(s.metrics, "http")

	span, ctx := s.tracer.StartSpan(c.Request.Context(), "script.eval")
	span.SetTag("request", reqID.String())
	result, err := s.pool.Execute(ctx, req.Script)
	span.SetError(err)
	span.Finish()
	s.tracer.Submit(span)

	switch {
	case errors.Is(err, plugin.ErrTimeout), errors.Is(err, plugin.ErrPoolClosed):
		timer.Stop("unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"id": reqID, "error": err.Error()})
		return
	case result == nil:
		timer.Stop("error")
		c.JSON(http.StatusInternalServerError, gin.H{"id": reqID, "error": errString(err)})
		return
	}

	resp := evalResponse(reqID.String(), result)
	status := http.StatusOK
	if err != nil {
		timer.Stop("error")
		status = http.StatusUnprocessableEntity
		s.logger.Debug("script failed", zap.String("request", reqID.String()), zap.Error(err))
	} else {
		timer.Stop("ok")
	}
	c.JSON(status, resp)
}

func evalResponse(reqID string, result *gojahost.Result) EvalResponse {
	resp := EvalResponse{
		ID:       reqID,
		Value:    result.Value,
		Console:  result.Console,
		Duration: float64(result.Duration) / float64(time.Millisecond),
	}
	if result.Error != nil {
		resp.Error = result.Error.Error()
	}
	return resp
}

func errString(err error) string {
	if err == nil {
		return "no result"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return err.Error()
}
