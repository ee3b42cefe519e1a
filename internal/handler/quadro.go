package handler

import (
	"net/http"
	"strconv"

	"orcamento/internal/apierror"
	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
)

// QuadroHandler serves headcount positions, span rules and rateio groups
// nested under /v1/cenarios/:id.
type QuadroHandler struct{ svc service.QuadroService }

func NewQuadroHandler(svc service.QuadroService) *QuadroHandler {
	return &QuadroHandler{svc: svc}
}

// Criar godoc
// @Summary      Criar posição do quadro de pessoal
// @Description  Aceita quantidades_mes [{ano, mes, quantidade}] ou as colunas qtd_jan..qtd_dez (primeiro ano do cenário).
// @Tags         quadro
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string            true "UUID do cenário"
// @Param        body body dto.QuadroRequest true "Posição"
// @Success      201  {object} dto.QuadroResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/cenarios/{id}/quadro [post]
func (h *QuadroHandler) Criar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.QuadroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/cenarios/:id/quadro?cenario_secao_id=
func (h *QuadroHandler) Listar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := secaoQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), id, secaoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObterPorID GET /v1/cenarios/:id/quadro/:quadro_id
func (h *QuadroHandler) ObterPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quadroID, ok := parseID(c, "quadro_id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id, quadroID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar PUT /v1/cenarios/:id/quadro/:quadro_id
func (h *QuadroHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quadroID, ok := parseID(c, "quadro_id")
	if !ok {
		return
	}
	var req dto.QuadroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, quadroID, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir DELETE /v1/cenarios/:id/quadro/:quadro_id
func (h *QuadroHandler) Excluir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quadroID, ok := parseID(c, "quadro_id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id, quadroID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Spans ────────────────────────────────────────────────────────────────────

// CriarSpan godoc
// @Summary      Criar regra de span
// @Description  Quantidade da função = ceil(Σ funções base / ratio). Ciclos entre spans são rejeitados.
// @Tags         quadro
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string          true "UUID do cenário"
// @Param        body body dto.SpanRequest true "Regra"
// @Success      201  {object} dto.SpanResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/cenarios/{id}/spans [post]
func (h *QuadroHandler) CriarSpan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SpanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarSpan(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarSpans GET /v1/cenarios/:id/spans
func (h *QuadroHandler) ListarSpans(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarSpans(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExcluirSpan DELETE /v1/cenarios/:id/spans/:span_id
func (h *QuadroHandler) ExcluirSpan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	spanID, ok := parseID(c, "span_id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirSpan(c.Request.Context(), id, spanID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CalcularSpans godoc
// @Summary      Calcular spans
// @Description  Sem aplicar, retorna a simulação por posição e mês. Com aplicar=true grava as quantidades nas posições de span.
// @Tags         quadro
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string true  "UUID do cenário"
// @Param        aplicar query bool   false "Gravar o resultado"
// @Success      200 {object} dto.CalcularSpansResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/cenarios/{id}/spans/calcular [post]
func (h *QuadroHandler) CalcularSpans(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	aplicar := false
	if v := c.Query("aplicar"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("aplicar deve ser true ou false"))
			return
		}
		aplicar = b
	}
	resp, err := h.svc.CalcularSpans(c.Request.Context(), id, aplicar)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Grupos de rateio ─────────────────────────────────────────────────────────

// CriarGrupo POST /v1/cenarios/:id/rateio-grupos
func (h *QuadroHandler) CriarGrupo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RateioGrupoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarGrupo(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarGrupos GET /v1/cenarios/:id/rateio-grupos
func (h *QuadroHandler) ListarGrupos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarGrupos(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExcluirGrupo DELETE /v1/cenarios/:id/rateio-grupos/:grupo_id
func (h *QuadroHandler) ExcluirGrupo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	grupoID, ok := parseID(c, "grupo_id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirGrupo(c.Request.Context(), id, grupoID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
