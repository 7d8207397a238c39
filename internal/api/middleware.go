package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/auth"
)

const deviceKey = "device"

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if dev, ok := c.Get(deviceKey); ok {
			fields = append(fields, zap.String("device_id", dev.(*Device).ID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		logger.Info("request", fields...)
	}
}

// withDevice resolves the X-Device-ID header to the device's services.
func (h *Handler) withDevice() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(deviceKey); ok {
			c.Next()
			return
		}

		id := c.GetHeader(DeviceHeader)
		if id == "" {
			id = DefaultDevice
		}

		dev, err := h.devices.Get(c.Request.Context(), id)
		if err != nil {
			h.fail(c, err)
			c.Abort()
			return
		}

		c.Set(deviceKey, dev)
		c.Next()
	}
}

func device(c *gin.Context) *Device {
	return c.MustGet(deviceKey).(*Device)
}

func (h *Handler) authService(c *gin.Context) (*auth.Service, error) {
	return device(c).Auth, nil
}
