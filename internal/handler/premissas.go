package handler

import (
	"net/http"

	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
)

type PremissasHandler struct{ svc service.PremissaService }

func NewPremissasHandler(svc service.PremissaService) *PremissasHandler {
	return &PremissasHandler{svc: svc}
}

// SalvarPremissasFuncao godoc
// @Summary      Salvar premissas de função
// @Description  Absenteísmo, turnover e índice de férias em percentual (0–100) por seção, função e mês.
// @Tags         premissas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                         true "UUID do cenário"
// @Param        body body dto.PremissasFuncaoBulkRequest true "Premissas"
// @Success      200  {object} dto.PremissasBulkResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/cenarios/{id}/premissas-funcao [put]
func (h *PremissasHandler) SalvarPremissasFuncao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PremissasFuncaoBulkRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SalvarPremissasFuncao(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPremissasFuncao GET /v1/cenarios/:id/premissas-funcao?cenario_secao_id=
func (h *PremissasHandler) ListarPremissasFuncao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := secaoQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarPremissasFuncao(c.Request.Context(), id, secaoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CriarRubrica POST /v1/cenarios/:id/rubricas
func (h *PremissasHandler) CriarRubrica(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RubricaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarRubrica(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarRubricas GET /v1/cenarios/:id/rubricas
func (h *PremissasHandler) ListarRubricas(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarRubricas(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExcluirRubrica DELETE /v1/cenarios/:id/rubricas/:rubrica_id
func (h *PremissasHandler) ExcluirRubrica(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rubricaID, ok := parseID(c, "rubrica_id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirRubrica(c.Request.Context(), id, rubricaID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
