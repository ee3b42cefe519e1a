package middleware

import (
	"net/http"
	"time"

	"orcamento/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrorHandler turns errors attached with c.Error into a response when the
// handler did not write one. Bind errors keep their 400; everything else is
// a generic 500 so internal messages stay in the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		ultimo := c.Errors.Last()
		evento(c, log.Error()).Err(ultimo.Err).Msg("erro não tratado")

		if c.Writer.Written() {
			return
		}
		if ultimo.IsType(gin.ErrorTypeBind) {
			c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New("Requisição inválida"))
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
	}
}

// Recovery converts panics into 500 responses and logs the value with the
// request context.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			evento(c, log.Error()).Interface("panic", r).Msg("panic recuperado")
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
				return
			}
			c.Abort()
		}()
		c.Next()
	}
}

// Logger writes one line per request. Health probes log at debug, server
// errors at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		inicio := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Warn()
		case c.Request.URL.Path == "/health":
			ev = log.Debug()
		}
		evento(c, ev).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(inicio)).
			Msg("request")
	}
}

// evento adds request_id, method, route and, behind JWTAuth, the caller.
func evento(c *gin.Context, ev *zerolog.Event) *zerolog.Event {
	ev = ev.Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
	if rota := c.FullPath(); rota != "" {
		ev = ev.Str("rota", rota)
	}
	if claims := GetClaims(c); claims != nil {
		ev = ev.Str("usuario_id", claims.UsuarioID).Str("papel", claims.Papel)
	}
	return ev
}
