package handler

import (
	"net/http"

	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
)

type CenariosHandler struct{ svc service.CenarioService }

func NewCenariosHandler(svc service.CenarioService) *CenariosHandler {
	return &CenariosHandler{svc: svc}
}

// Criar godoc
// @Summary      Criar cenário
// @Description  Cria um cenário em RASCUNHO. O período (mês/ano inicial e final) é validado.
// @Tags         cenarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CenarioRequest true "Dados do cenário"
// @Success      201  {object} dto.CenarioResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/cenarios [post]
func (h *CenariosHandler) Criar(c *gin.Context) {
	var req dto.CenarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary  Listar cenários
// @Tags     cenarios
// @Produce  json
// @Security BearerAuth
// @Param    status query string false "RASCUNHO | APROVADO | BLOQUEADO"
// @Success  200 {array} dto.CenarioResponse
// @Router   /v1/cenarios [get]
func (h *CenariosHandler) Listar(c *gin.Context) {
	var filter dto.CenarioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObterPorID GET /v1/cenarios/:id
func (h *CenariosHandler) ObterPorID(c *gin.Context) {
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

// Atualizar PUT /v1/cenarios/:id
func (h *CenariosHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CenarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir DELETE /v1/cenarios/:id
func (h *CenariosHandler) Excluir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AlterarStatus godoc
// @Summary      Alterar status do cenário
// @Description  RASCUNHO→APROVADO, APROVADO→RASCUNHO ou APROVADO→BLOQUEADO. BLOQUEADO é definitivo.
// @Tags         cenarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID do cenário"
// @Param        body body dto.AlterarStatusRequest true "Novo status"
// @Success      200  {object} dto.CenarioResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cenarios/{id}/status [patch]
func (h *CenariosHandler) AlterarStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AlterarStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AlterarStatus(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Duplicar godoc
// @Summary      Duplicar cenário
// @Description  Copia toda a configuração do cenário para um novo cenário em RASCUNHO. Resultados calculados não são copiados.
// @Tags         cenarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                     true "UUID do cenário de origem"
// @Param        body body dto.DuplicarCenarioRequest true "Código e nome do novo cenário"
// @Success      201  {object} dto.CenarioResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cenarios/{id}/duplicar [post]
func (h *CenariosHandler) Duplicar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.DuplicarCenarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Duplicar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ── Estrutura ────────────────────────────────────────────────────────────────

// Estrutura GET /v1/cenarios/:id/estrutura
func (h *CenariosHandler) Estrutura(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Estrutura(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdicionarEmpresa POST /v1/cenarios/:id/empresas
func (h *CenariosHandler) AdicionarEmpresa(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdicionarEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarEmpresa(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AdicionarCliente POST /v1/cenarios/:id/clientes
func (h *CenariosHandler) AdicionarCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdicionarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarCliente(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AdicionarSecao POST /v1/cenarios/:id/secoes
func (h *CenariosHandler) AdicionarSecao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SecaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarSecao(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AtualizarSecao PATCH /v1/cenarios/:id/secoes/:secao_id
func (h *CenariosHandler) AtualizarSecao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	secaoID, ok := parseID(c, "secao_id")
	if !ok {
		return
	}
	var req dto.AtualizarSecaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AtualizarSecao(c.Request.Context(), id, secaoID, req); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdicionarCentroCusto POST /v1/cenarios/:id/centros-custo
func (h *CenariosHandler) AdicionarCentroCusto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdicionarCentroCustoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarCentroCusto(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
