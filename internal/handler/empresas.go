package handler

import (
	"net/http"

	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
)

type EmpresasHandler struct {
	*CatalogoHandler[dto.EmpresaRequest, dto.EmpresaResponse]
	svc service.EmpresaService
}

func NewEmpresasHandler(svc service.EmpresaService) *EmpresasHandler {
	return &EmpresasHandler{CatalogoHandler: NewCatalogoHandler[dto.EmpresaRequest, dto.EmpresaResponse](svc), svc: svc}
}

// ListarTributos godoc
// @Summary  Listar tributos da empresa
// @Tags     empresas
// @Produce  json
// @Security BearerAuth
// @Param    id  path  string  true  "UUID da empresa"
// @Success  200 {array}  dto.TributoResponse
// @Failure  404 {object} apierror.APIError
// @Router   /v1/empresas/{id}/tributos [get]
func (h *EmpresasHandler) ListarTributos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarTributos(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CriarTributo POST /v1/empresas/:id/tributos
func (h *EmpresasHandler) CriarTributo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TributoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarTributo(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ExcluirTributo DELETE /v1/empresas/:id/tributos/:tributo_id
func (h *EmpresasHandler) ExcluirTributo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tributoID, ok := parseID(c, "tributo_id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirTributo(c.Request.Context(), id, tributoID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarEncargos GET /v1/empresas/:id/encargos
func (h *EmpresasHandler) ListarEncargos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarEncargos(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CriarEncargo POST /v1/empresas/:id/encargos
func (h *EmpresasHandler) CriarEncargo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.EncargoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarEncargo(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ExcluirEncargo DELETE /v1/empresas/:id/encargos/:encargo_id
func (h *EmpresasHandler) ExcluirEncargo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	encargoID, ok := parseID(c, "encargo_id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirEncargo(c.Request.Context(), id, encargoID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GerarPadroes godoc
// @Summary      Gerar tributos e encargos padrão
// @Description  Cria PIS, COFINS, ISS, INSS, FGTS e provisões de férias e 13º que a empresa ainda não possui.
// @Tags         empresas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "UUID da empresa"
// @Success      200 {object} dto.GerarPadroesResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/empresas/{id}/gerar-padroes [post]
func (h *EmpresasHandler) GerarPadroes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GerarPadroes(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
