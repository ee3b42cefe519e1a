package handler

import (
	"net/http"

	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves the CRUD of one catalog type (funções, centros de
// custo, fornecedores, tipos de custo, tipos de receita, empresas).
type CatalogoHandler[Req, Resp any] struct {
	svc service.CatalogoService[Req, Resp]
}

func NewCatalogoHandler[Req, Resp any](svc service.CatalogoService[Req, Resp]) *CatalogoHandler[Req, Resp] {
	return &CatalogoHandler[Req, Resp]{svc: svc}
}

// Criar POST /v1/<catalogo>
func (h *CatalogoHandler[Req, Resp]) Criar(c *gin.Context) {
	var req Req
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

// Listar GET /v1/<catalogo>?ativos=true
func (h *CatalogoHandler[Req, Resp]) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("ativos") == "true")
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObterPorID GET /v1/<catalogo>/:id
func (h *CatalogoHandler[Req, Resp]) ObterPorID(c *gin.Context) {
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

// Atualizar PUT /v1/<catalogo>/:id
func (h *CatalogoHandler[Req, Resp]) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req Req
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

// Excluir DELETE /v1/<catalogo>/:id
func (h *CatalogoHandler[Req, Resp]) Excluir(c *gin.Context) {
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

// Registrar mounts the five routes on g, guarding reads with ler and
// writes with escrever.
func (h *CatalogoHandler[Req, Resp]) Registrar(g *gin.RouterGroup, ler, escrever gin.HandlerFunc) {
	g.POST("", escrever, h.Criar)
	g.GET("", ler, h.Listar)
	g.GET("/:id", ler, h.ObterPorID)
	g.PUT("/:id", escrever, h.Atualizar)
	g.DELETE("/:id", escrever, h.Excluir)
}
