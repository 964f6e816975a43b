package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/linecard/bpsync/pkg/convention/action"
	"github.com/linecard/bpsync/pkg/convention/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Invoker interface {
	Invoke(ctx context.Context, payload json.RawMessage) (action.Output, error)
}

// Listen resolves the listen address, preferring the Lambda web adapter port.
func Listen(addr string) string {
	if value, exists := os.LookupEnv("AWS_LWA_PORT"); exists {
		return "0.0.0.0:" + value
	}

	if addr == "" {
		return "0.0.0.0:8081"
	}

	return addr
}

func Router(invoker Invoker) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/events", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if len(body) > 0 && !json.Valid(body) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
			return
		}

		out, err := invoker.Invoke(c.Request.Context(), body)
		if errors.Is(err, config.ErrConfiguration) {
			log.Warn().Err(err).Msg("rejected event")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err != nil {
			log.Error().Err(err).Msg("event failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, out)
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

func Serve(invoker Invoker, addr string) error {
	listen := Listen(addr)
	log.Info().Str("listen", listen).Msg("serving webhook")
	return Router(invoker).Run(listen)
}
