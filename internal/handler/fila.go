package handler

import (
	"net/http"

	"orcamento/internal/apierror"
	"orcamento/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// FilaHandler exposes the recalculation dead letter queue to administrators.
type FilaHandler struct{ rdb *redis.Client }

func NewFilaHandler(rdb *redis.Client) *FilaHandler {
	return &FilaHandler{rdb: rdb}
}

type filaQuery struct {
	Limite int64 `form:"limite" validate:"omitempty,min=1,max=500"`
}

// Falhas GET /v1/fila/falhas?limite=
func (h *FilaHandler) Falhas(c *gin.Context) {
	var q filaQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limite == 0 {
		q.Limite = 50
	}
	entradas, err := worker.ListDLQ(c.Request.Context(), h.rdb, worker.QueueCalculo, q.Limite)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierror.New("Fila indisponível"))
		return
	}
	total, _ := worker.DLQLength(c.Request.Context(), h.rdb, worker.QueueCalculo)
	c.JSON(http.StatusOK, gin.H{"total": total, "falhas": entradas})
}

type reprocessarQuery struct {
	Limite int `form:"limite" validate:"omitempty,min=1,max=500"`
}

// Reprocessar POST /v1/fila/falhas/reprocessar?limite=
// Re-enqueues the oldest failed recalculations.
func (h *FilaHandler) Reprocessar(c *gin.Context) {
	var q reprocessarQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limite == 0 {
		q.Limite = 50
	}
	n, err := worker.ReprocessarDLQ(c.Request.Context(), h.rdb, worker.QueueCalculo, q.Limite)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierror.New("Fila indisponível"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reenfileirados": n})
}
