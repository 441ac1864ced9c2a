// Package routers
package routers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"oceangpt-api/internal/backend"
	"oceangpt-api/internal/handlers/gateway"
	"oceangpt-api/internal/metrics"
	"oceangpt-api/internal/setup"
	"oceangpt-api/internal/shared"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type GatewayRouter struct {
	h *gateway.Handler
}

func RegisterGatewayRoutes(e *echo.Group, h *gateway.Handler, log *zap.SugaredLogger) {
	gr := GatewayRouter{h: h}

	e.GET("/", gr.Health)
	e.GET("/health", gr.Health)
	e.POST("/query", gr.QueryRequest)
	e.POST("/chat", gr.ChatRequest)
}

// Health is a shallow liveness check. It never touches the backend: the
// backend's own health is outside this gateway's observability scope.
func (gr *GatewayRouter) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, shared.HealthResponse{
		Status:  "healthy",
		Service: shared.ServiceName,
		Version: shared.ServiceVersion,
	})
}

func (gr *GatewayRouter) QueryRequest(cc echo.Context) error {
	return gr.forward(cc, shared.EndpointQuery)
}

func (gr *GatewayRouter) ChatRequest(cc echo.Context) error {
	return gr.forward(cc, shared.EndpointChat)
}

func (gr *GatewayRouter) forward(cc echo.Context, endpoint string) error {
	c := cc.(*setup.Context)
	start := time.Now()

	metrics.InflightRequests.Inc()
	defer metrics.InflightRequests.Dec()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.Log.Errorw("Failed to read request body", "error", err.Error())
		metrics.RequestCount.WithLabelValues(endpoint, "error").Inc()
		return c.JSON(http.StatusBadRequest, shared.ErrorResponse{
			Error:  "failed to read request body",
			Status: "error",
		})
	}

	payload, preErr := gr.h.Preprocess(body)
	if preErr != nil {
		c.Log.Warnw("Request rejected", "error", preErr.Error(), "endpoint", endpoint)
		metrics.RequestCount.WithLabelValues(endpoint, "error").Inc()
		var rerr *shared.RequestError
		if !errors.As(preErr, &rerr) {
			rerr = shared.ErrInternalServerError
		}
		return c.JSON(rerr.StatusCode, shared.ErrorResponse{
			Error:  rerr.Err.Error(),
			Status: "error",
		})
	}

	var res backend.Result
	switch endpoint {
	case shared.EndpointChat:
		res = gr.h.Chat(c.Request().Context(), *payload)
	default:
		res = gr.h.Query(c.Request().Context(), *payload)
	}
	metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	return gr.respond(c, endpoint, res)
}

// respond maps every result variant to exactly one HTTP response. The
// switch is total over backend.Kind; there is no other failure path out
// of the forwarding pipeline.
func (gr *GatewayRouter) respond(c *setup.Context, endpoint string, res backend.Result) error {
	switch res.Kind {
	case backend.KindSuccess:
		metrics.RequestCount.WithLabelValues(endpoint, "success").Inc()
		return c.JSON(http.StatusOK, shared.QueryResponse{
			Response: res.Text,
			Status:   "success",
		})
	case backend.KindTimeout:
		metrics.RequestCount.WithLabelValues(endpoint, "error").Inc()
		return c.JSON(http.StatusGatewayTimeout, shared.ErrorResponse{
			Error:  shared.MsgTimeout,
			Status: "error",
		})
	case backend.KindConnectionFailure:
		metrics.RequestCount.WithLabelValues(endpoint, "error").Inc()
		return c.JSON(http.StatusServiceUnavailable, shared.ErrorResponse{
			Error:  shared.MsgConnectionFailure + res.Detail,
			Status: "error",
		})
	case backend.KindRemoteError:
		metrics.RequestCount.WithLabelValues(endpoint, "error").Inc()
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{
			Error:  shared.MsgInternalError + res.Detail,
			Status: "error",
		})
	default:
		c.Log.Errorw("Unhandled backend result kind", "kind", res.Kind)
		metrics.RequestCount.WithLabelValues(endpoint, "error").Inc()
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{
			Error:  shared.ErrInternalServerError.Err.Error(),
			Status: "error",
		})
	}
}
