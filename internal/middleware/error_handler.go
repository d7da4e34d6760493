package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Logger emits one structured line per request with latency and status.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		evento := log.Info()
		if c.Writer.Status() >= 500 {
			evento = log.Error()
		}
		evento.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery converts panics into clean 500 envelopes instead of dropping the
// connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("panic recuperado")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
			}
		}()
		c.Next()
	}
}

// ErrorHandler maps the errors handlers attach via c.Error into HTTP
// responses. Domain errors carry their own message; everything else becomes
// an opaque 500 so SQL details never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var valErr *apierror.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusUnprocessableEntity, valErr)
			return
		}

		var apiErr *apierror.APIError
		switch {
		case errors.Is(err, service.ErrCredenciales):
			c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		case errors.Is(err, repository.ErrCierreDuplicado):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, apierror.New("recurso no encontrado"))
		case errors.As(err, &apiErr):
			c.JSON(http.StatusBadRequest, apiErr)
		default:
			log.Error().
				Err(err).
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.Request.URL.Path).
				Msg("error no manejado")
			c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
		}
	}
}
