package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orcamento/internal/calculo"
	"orcamento/internal/dto"
	"orcamento/internal/handler"
	"orcamento/internal/middleware"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

// ── Stub service ──────────────────────────────────────────────────────────────

type stubCalculo struct {
	err         error
	ultimaSecao *uuid.UUID
	ultimaQuery dto.DREQuery
}

func (s *stubCalculo) CalcularFolha(_ context.Context, _ uuid.UUID, secaoID *uuid.UUID) (*dto.CalculoFolhaResponse, error) {
	s.ultimaSecao = secaoID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CalculoFolhaResponse{Quantidade: 6, Pendencias: []calculo.Pendencia{}}, nil
}

func (s *stubCalculo) CalcularTecnologia(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*dto.CalculoTecnologiaResponse, error) {
	return &dto.CalculoTecnologiaResponse{}, s.err
}

func (s *stubCalculo) CalcularReceitas(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*dto.CalculoReceitaResponse, error) {
	return &dto.CalculoReceitaResponse{}, s.err
}

func (s *stubCalculo) CalcularTudo(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*dto.CalcularTudoResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CalcularTudoResponse{}, nil
}

func (s *stubCalculo) DRE(_ context.Context, id uuid.UUID, q dto.DREQuery) (*dto.DREResponse, error) {
	s.ultimaQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DREResponse{CenarioID: id, Ano: q.Ano, Linhas: []calculo.LinhaDRE{}, TotalGeral: decimal.Zero, Completo: true}, nil
}

func (s *stubCalculo) ReceitasCalculadas(_ context.Context, _ uuid.UUID, _ *uuid.UUID, _ int) ([]dto.ReceitaCalculadaResponse, error) {
	return []dto.ReceitaCalculadaResponse{}, s.err
}

func (s *stubCalculo) AgendarRecalculo(_ context.Context, _ uuid.UUID) (*dto.RecalculoResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.RecalculoResponse{JobID: uuid.New(), Status: "agendado"}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func signToken(t *testing.T, papel string, dur time.Duration) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UsuarioID: uuid.NewString(),
		Nome:      "Teste",
		Papel:     papel,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(dur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func calculoRouter(svc service.CalculoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewCalculoHandler(svc)
	leitura := middleware.RequireRole(middleware.PapelLeitor, middleware.PapelAnalista, middleware.PapelAprovador, middleware.PapelAdministrador)
	edicao := middleware.RequireRole(middleware.PapelAnalista, middleware.PapelAdministrador)

	cen := r.Group("/v1/cenarios/:id", middleware.JWTAuth(testSecret))
	cen.POST("/calcular", edicao, h.CalcularFolha)
	cen.POST("/calcular-tudo", edicao, h.CalcularTudo)
	cen.POST("/recalcular", edicao, h.Recalcular)
	cen.GET("/dre", leitura, h.DRE)
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doRaw(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detalhe(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func TestCalculoHandler_Autenticacao(t *testing.T) {
	r := calculoRouter(&stubCalculo{})
	path := "/v1/cenarios/" + uuid.NewString() + "/calcular"

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"sem token", "", http.StatusUnauthorized},
		{"token expirado", signToken(t, middleware.PapelAnalista, -time.Minute), http.StatusUnauthorized},
		{"leitor não calcula", signToken(t, middleware.PapelLeitor, time.Hour), http.StatusForbidden},
		{"aprovador não calcula", signToken(t, middleware.PapelAprovador, time.Hour), http.StatusForbidden},
		{"analista calcula", signToken(t, middleware.PapelAnalista, time.Hour), http.StatusOK},
		{"administrador calcula", signToken(t, middleware.PapelAdministrador, time.Hour), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, path, tt.token, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestCalculoHandler_TokenAssinadoComOutroSegredo(t *testing.T) {
	r := calculoRouter(&stubCalculo{})
	claims := middleware.JWTClaims{Papel: middleware.PapelAdministrador}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("outro"))
	require.NoError(t, err)

	w := do(t, r, http.MethodPost, "/v1/cenarios/"+uuid.NewString()+"/calcular", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ── Error mapping ─────────────────────────────────────────────────────────────

func TestCalculoHandler_MapeamentoDeErros(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"não encontrado", fmt.Errorf("cenário: %w", service.ErrNaoEncontrado), http.StatusNotFound},
		{"cenário aprovado", fmt.Errorf("cenário ORC está APROVADO: %w", service.ErrCenarioImutavel), http.StatusConflict},
		{"conflito", fmt.Errorf("dup: %w", service.ErrConflito), http.StatusConflict},
		{"validação", &calculo.ErroValidacao{Campo: "rateio_grupo_id", Mensagem: "grupo inexistente"}, http.StatusUnprocessableEntity},
		{"ciclo de span", &calculo.ErroCiclo{Caminho: []uuid.UUID{uuid.New(), uuid.New()}}, http.StatusUnprocessableEntity},
		{"período inválido", calculo.ErrPeriodoInvalido, http.StatusUnprocessableEntity},
		{"infraestrutura", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	tok := signToken(t, middleware.PapelAnalista, time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := calculoRouter(&stubCalculo{err: tt.err})
			w := do(t, r, http.MethodPost, "/v1/cenarios/"+uuid.NewString()+"/calcular-tudo", tok, nil)
			assert.Equal(t, tt.status, w.Code)
			body := detalhe(t, w)
			assert.NotEmpty(t, body["detail"])
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "Erro interno do servidor", body["detail"])
			}
		})
	}
}

func TestCalculoHandler_ValidacaoTrazCampo(t *testing.T) {
	r := calculoRouter(&stubCalculo{err: &calculo.ErroValidacao{Campo: "fator_pa", Mensagem: "fator_pa deve ser maior que zero"}})
	w := do(t, r, http.MethodPost, "/v1/cenarios/"+uuid.NewString()+"/calcular", signToken(t, middleware.PapelAnalista, time.Hour), nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := detalhe(t, w)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "fator_pa")
}

// ── Parameters ────────────────────────────────────────────────────────────────

func TestCalculoHandler_IDInvalido(t *testing.T) {
	r := calculoRouter(&stubCalculo{})
	w := do(t, r, http.MethodPost, "/v1/cenarios/nao-e-uuid/calcular", signToken(t, middleware.PapelAnalista, time.Hour), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculoHandler_SecaoQuery(t *testing.T) {
	stub := &stubCalculo{}
	r := calculoRouter(stub)
	tok := signToken(t, middleware.PapelAnalista, time.Hour)
	base := "/v1/cenarios/" + uuid.NewString() + "/calcular"

	w := do(t, r, http.MethodPost, base+"?cenario_secao_id=xyz", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	secao := uuid.New()
	w = do(t, r, http.MethodPost, base+"?cenario_secao_id="+secao.String(), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.ultimaSecao)
	assert.Equal(t, secao, *stub.ultimaSecao)
}

func TestCalculoHandler_DREExigeAno(t *testing.T) {
	stub := &stubCalculo{}
	r := calculoRouter(stub)
	tok := signToken(t, middleware.PapelLeitor, time.Hour)
	base := "/v1/cenarios/" + uuid.NewString() + "/dre"

	w := do(t, r, http.MethodGet, base, tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodGet, base+"?ano=1999", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodGet, base+"?ano=2025", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2025, stub.ultimaQuery.Ano)
	assert.Nil(t, stub.ultimaQuery.CenarioSecaoID)
	assert.Equal(t, true, detalhe(t, w)["completo"])
}

func TestCalculoHandler_RecalcularAceito(t *testing.T) {
	r := calculoRouter(&stubCalculo{})
	w := do(t, r, http.MethodPost, "/v1/cenarios/"+uuid.NewString()+"/recalcular", signToken(t, middleware.PapelAnalista, time.Hour), nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "agendado", detalhe(t, w)["status"])
}
