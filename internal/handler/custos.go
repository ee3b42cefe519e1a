package handler

import (
	"net/http"

	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
)

// CustosHandler serves direct costs and technology allocations.
type CustosHandler struct{ svc service.CustoService }

func NewCustosHandler(svc service.CustoService) *CustosHandler {
	return &CustosHandler{svc: svc}
}

// CriarCusto godoc
// @Summary      Criar custo direto
// @Description  FIXO, VARIAVEL (valor unitário × HC ou PA) ou FIXO_VARIAVEL, com rateio opcional entre centros de custo.
// @Tags         custos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string           true "UUID do cenário"
// @Param        body body dto.CustoRequest true "Custo"
// @Success      201  {object} dto.CustoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/cenarios/{id}/custos [post]
func (h *CustosHandler) CriarCusto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CustoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarCusto(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarCustos GET /v1/cenarios/:id/custos?cenario_secao_id=
func (h *CustosHandler) ListarCustos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := secaoQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarCustos(c.Request.Context(), id, secaoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExcluirCusto DELETE /v1/cenarios/:id/custos/:custo_id
func (h *CustosHandler) ExcluirCusto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	custoID, ok := parseID(c, "custo_id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirCusto(c.Request.Context(), id, custoID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CriarAlocacao POST /v1/cenarios/:id/alocacoes-tecnologia
func (h *CustosHandler) CriarAlocacao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CustoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarAlocacao(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarAlocacoes GET /v1/cenarios/:id/alocacoes-tecnologia?cenario_secao_id=
func (h *CustosHandler) ListarAlocacoes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := secaoQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarAlocacoes(c.Request.Context(), id, secaoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExcluirAlocacao DELETE /v1/cenarios/:id/alocacoes-tecnologia/:alocacao_id
func (h *CustosHandler) ExcluirAlocacao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	alocacaoID, ok := parseID(c, "alocacao_id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirAlocacao(c.Request.Context(), id, alocacaoID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
