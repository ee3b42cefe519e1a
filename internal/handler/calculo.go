package handler

import (
	"net/http"

	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
)

// CalculoHandler triggers the calculation passes and serves their results.
type CalculoHandler struct{ svc service.CalculoService }

func NewCalculoHandler(svc service.CalculoService) *CalculoHandler {
	return &CalculoHandler{svc: svc}
}

// CalcularFolha godoc
// @Summary      Calcular folha e custos diretos
// @Description  Resolve o quadro (manual, span, rateio) e recalcula folha, encargos, provisões e custos diretos. Repetir o cálculo produz o mesmo resultado.
// @Tags         calculo
// @Produce      json
// @Security     BearerAuth
// @Param        id               path  string true  "UUID do cenário"
// @Param        cenario_secao_id query string false "Limitar a uma seção"
// @Success      200 {object} dto.CalculoFolhaResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/cenarios/{id}/calcular [post]
func (h *CalculoHandler) CalcularFolha(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := secaoQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.CalcularFolha(c.Request.Context(), id, secaoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CalcularTecnologia godoc
// @Summary  Calcular alocações de tecnologia
// @Tags     calculo
// @Produce  json
// @Security BearerAuth
// @Param    id               path  string true  "UUID do cenário"
// @Param    cenario_secao_id query string false "Limitar a uma seção"
// @Success  200 {object} dto.CalculoTecnologiaResponse
// @Router   /v1/cenarios/{id}/calcular-tecnologia [post]
func (h *CalculoHandler) CalcularTecnologia(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := secaoQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.CalcularTecnologia(c.Request.Context(), id, secaoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CalcularReceitas godoc
// @Summary  Calcular receitas e tributos
// @Tags     calculo
// @Produce  json
// @Security BearerAuth
// @Param    id               path  string true  "UUID do cenário"
// @Param    cenario_secao_id query string false "Limitar a uma seção"
// @Success  200 {object} dto.CalculoReceitaResponse
// @Router   /v1/cenarios/{id}/calcular-receitas [post]
func (h *CalculoHandler) CalcularReceitas(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := secaoQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.CalcularReceitas(c.Request.Context(), id, secaoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CalcularTudo POST /v1/cenarios/:id/calcular-tudo
func (h *CalculoHandler) CalcularTudo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := secaoQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.CalcularTudo(c.Request.Context(), id, secaoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recalcular godoc
// @Summary      Agendar recálculo
// @Description  Enfileira o cálculo completo do cenário para o pool de workers.
// @Tags         calculo
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "UUID do cenário"
// @Success      202 {object} dto.RecalculoResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/cenarios/{id}/recalcular [post]
func (h *CalculoHandler) Recalcular(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.AgendarRecalculo(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// DRE godoc
// @Summary      DRE do cenário
// @Description  Agrega os lançamentos calculados por conta e mês. Custos positivos, receitas negativas.
// @Tags         calculo
// @Produce      json
// @Security     BearerAuth
// @Param        id               path  string true  "UUID do cenário"
// @Param        ano              query int    true  "Ano"
// @Param        cenario_secao_id query string false "Limitar a uma seção"
// @Success      200 {object} dto.DREResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cenarios/{id}/dre [get]
func (h *CalculoHandler) DRE(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var q dto.DREQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.CenarioSecaoID, ok = secaoQuery(c); !ok {
		return
	}
	resp, err := h.svc.DRE(c.Request.Context(), id, q)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReceitasCalculadas GET /v1/cenarios/:id/receitas-calculadas?ano=&cenario_secao_id=
func (h *CalculoHandler) ReceitasCalculadas(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var q dto.DREQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.CenarioSecaoID, ok = secaoQuery(c); !ok {
		return
	}
	resp, err := h.svc.ReceitasCalculadas(c.Request.Context(), id, q.CenarioSecaoID, q.Ano)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
