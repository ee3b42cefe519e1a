package handler

import (
	"errors"
	"fmt"
	"net/http"

	"orcamento/internal/apierror"
	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReceitasHandler struct{ svc service.ReceitaService }

func NewReceitasHandler(svc service.ReceitaService) *ReceitasHandler {
	return &ReceitasHandler{svc: svc}
}

// Criar godoc
// @Summary      Criar receita
// @Description  FIXA_CC, FIXA_HC, FIXA_PA (com mínimo e máximo por PA) ou VARIAVEL (premissas mensais).
// @Description  VARIAVEL usa PA simples; com usar_pa_produtivo=true desconta absenteísmo, férias e treinamento das premissas da função. O limite por PA usa sempre o PA simples.
// @Tags         receitas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "UUID do cenário"
// @Param        body body dto.ReceitaRequest true "Receita"
// @Success      201  {object} dto.ReceitaResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/cenarios/{id}/receitas [post]
func (h *ReceitasHandler) Criar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReceitaRequest
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

// Listar GET /v1/cenarios/:id/receitas?cenario_secao_id=
func (h *ReceitasHandler) Listar(c *gin.Context) {
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

// ObterPorID GET /v1/receitas/:id
func (h *ReceitasHandler) ObterPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir DELETE /v1/cenarios/:id/receitas/:receita_id
func (h *ReceitasHandler) Excluir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	receitaID, ok := parseID(c, "receita_id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id, receitaID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SalvarPremissas godoc
// @Summary      Salvar premissas de receita em lote
// @Description  Upsert por mês. indice_estorno é uma fração 0–1; indice_estorno_pct (0–100) é aceito no lugar.
// @Tags         receitas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "UUID da receita"
// @Param        body body []dto.PremissaReceitaItem true "Premissas mensais"
// @Success      200  {object} dto.PremissasBulkResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/receitas/{id}/premissas/bulk [post]
func (h *ReceitasHandler) SalvarPremissas(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var itens []dto.PremissaReceitaItem
	if err := c.ShouldBindJSON(&itens); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return
	}
	if len(itens) == 0 {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"premissas": "min"}))
		return
	}
	for i := range itens {
		if err := validate.Struct(itens[i]); err != nil {
			var ves validator.ValidationErrors
			if !errors.As(err, &ves) {
				c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
				return
			}
			fields := make(map[string]string)
			for _, fe := range ves {
				fields[fmt.Sprintf("[%d].%s", i, fe.Field())] = fe.Tag()
			}
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
			return
		}
	}
	resp, err := h.svc.SalvarPremissas(c.Request.Context(), id, itens)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
