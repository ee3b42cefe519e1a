package service_test

import (
	"context"
	"testing"

	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogo_CriarAtivoPorPadrao(t *testing.T) {
	svc := service.NewFuncaoService(newFakeFuncoes())

	resp, err := svc.Criar(context.Background(), dto.FuncaoRequest{Codigo: "ATD", Nome: "Atendente", SalarioBase: d("1800")})
	require.NoError(t, err)
	assert.True(t, resp.Ativo)
	assert.True(t, d("1800").Equal(resp.SalarioBase))
}

func TestCatalogo_CodigoDuplicado(t *testing.T) {
	svc := service.NewFuncaoService(newFakeFuncoes())
	ctx := context.Background()

	primeiro, err := svc.Criar(ctx, dto.FuncaoRequest{Codigo: "ATD", Nome: "Atendente"})
	require.NoError(t, err)
	segundo, err := svc.Criar(ctx, dto.FuncaoRequest{Codigo: "SUP", Nome: "Supervisor"})
	require.NoError(t, err)

	_, err = svc.Criar(ctx, dto.FuncaoRequest{Codigo: "ATD", Nome: "Outro"})
	assert.ErrorIs(t, err, service.ErrConflito)

	_, err = svc.Atualizar(ctx, segundo.ID, dto.FuncaoRequest{Codigo: "ATD", Nome: "Supervisor"})
	assert.ErrorIs(t, err, service.ErrConflito)

	// keeping its own code is not a conflict
	inativo := false
	atualizado, err := svc.Atualizar(ctx, primeiro.ID, dto.FuncaoRequest{Codigo: "ATD", Nome: "Atendente N1", Ativo: &inativo})
	require.NoError(t, err)
	assert.Equal(t, "Atendente N1", atualizado.Nome)
	assert.False(t, atualizado.Ativo)
}

func TestCatalogo_ExcluirEmUso(t *testing.T) {
	repo := newFakeTiposCusto()
	svc := service.NewTipoCustoService(repo)
	ctx := context.Background()

	tc, err := svc.Criar(ctx, dto.TipoCustoRequest{Codigo: "SALARIO", Nome: "Salário", ContaCodigo: "4.1.01", IncideINSS: true})
	require.NoError(t, err)
	assert.True(t, tc.IncideINSS)

	repo.emUso[tc.ID] = true
	assert.ErrorIs(t, svc.Excluir(ctx, tc.ID), service.ErrConflito)

	repo.emUso[tc.ID] = false
	require.NoError(t, svc.Excluir(ctx, tc.ID))
	_, err = svc.ObterPorID(ctx, tc.ID)
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestCatalogo_ExcluirInexistente(t *testing.T) {
	svc := service.NewFuncaoService(newFakeFuncoes())

	err := svc.Excluir(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestCatalogo_ListarOrdenadoPorCodigo(t *testing.T) {
	svc := service.NewFuncaoService(newFakeFuncoes())
	ctx := context.Background()
	for _, c := range []string{"SUP", "ATD", "COORD"} {
		_, err := svc.Criar(ctx, dto.FuncaoRequest{Codigo: c, Nome: c + " nome"})
		require.NoError(t, err)
	}

	lista, err := svc.Listar(ctx, false)
	require.NoError(t, err)
	require.Len(t, lista, 3)
	assert.Equal(t, "ATD", lista[0].Codigo)
	assert.Equal(t, "SUP", lista[2].Codigo)
}

// ── Empresas ─────────────────────────────────────────────────────────────────

func novaEmpresa(t *testing.T) (service.EmpresaService, *fakeEmpresaRepo, uuid.UUID) {
	t.Helper()
	repo := newFakeEmpresaRepo()
	svc := service.NewEmpresaService(repo)
	emp, err := svc.Criar(context.Background(), dto.EmpresaRequest{Codigo: "E1", Nome: "Contact Center SA"})
	require.NoError(t, err)
	return svc, repo, emp.ID
}

func TestEmpresa_GerarPadroes(t *testing.T) {
	svc, _, empresaID := novaEmpresa(t)
	ctx := context.Background()

	resp, err := svc.GerarPadroes(ctx, empresaID)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TributosCriados)
	assert.Equal(t, 7, resp.EncargosCriados)

	tributos, err := svc.ListarTributos(ctx, empresaID)
	require.NoError(t, err)
	assert.Len(t, tributos, 3)

	// second run only fills what is missing
	resp, err = svc.GerarPadroes(ctx, empresaID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TributosCriados)
	assert.Equal(t, 0, resp.EncargosCriados)
}

func TestEmpresa_GerarPadroesPreservaExistentes(t *testing.T) {
	svc, repo, empresaID := novaEmpresa(t)
	ctx := context.Background()

	_, err := svc.CriarTributo(ctx, empresaID, dto.TributoRequest{Codigo: "ISS", Nome: "ISS municipal", Aliquota: d("2"), ContaCodigo: "3.2.03"})
	require.NoError(t, err)

	resp, err := svc.GerarPadroes(ctx, empresaID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TributosCriados)

	for _, tr := range repo.tributos {
		if tr.Codigo == "ISS" {
			assert.True(t, d("2").Equal(tr.Aliquota), "alíquota customizada mantida")
		}
	}
}

func TestEmpresa_TributoDuplicado(t *testing.T) {
	svc, _, empresaID := novaEmpresa(t)
	ctx := context.Background()
	req := dto.TributoRequest{Codigo: "PIS", Nome: "PIS", Aliquota: d("1.65"), ContaCodigo: "3.2.01"}

	_, err := svc.CriarTributo(ctx, empresaID, req)
	require.NoError(t, err)
	_, err = svc.CriarTributo(ctx, empresaID, req)
	assert.ErrorIs(t, err, service.ErrConflito)
}

func TestEmpresa_EncargoValoresPadrao(t *testing.T) {
	svc, _, empresaID := novaEmpresa(t)

	resp, err := svc.CriarEncargo(context.Background(), empresaID, dto.EncargoRequest{
		Codigo: "SEGURO", Nome: "Seguro de vida", Categoria: "ENCARGO", Aliquota: d("0.5"), ContaCodigo: "4.1.09",
	})
	require.NoError(t, err)
	assert.Equal(t, "OUTRO", resp.Tipo)
	assert.Equal(t, "SALARIO", resp.BaseCalculo)
}

func TestEmpresa_Inexistente(t *testing.T) {
	svc, _, _ := novaEmpresa(t)

	_, err := svc.GerarPadroes(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
	_, err = svc.ListarEncargos(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestEmpresa_ExcluirTributoDeOutraEmpresa(t *testing.T) {
	svc, repo, empresaID := novaEmpresa(t)
	ctx := context.Background()
	tr, err := svc.CriarTributo(ctx, empresaID, dto.TributoRequest{Codigo: "PIS", Nome: "PIS", Aliquota: d("1.65"), ContaCodigo: "3.2.01"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ExcluirTributo(ctx, uuid.New(), tr.ID), service.ErrNaoEncontrado)
	require.NoError(t, svc.ExcluirTributo(ctx, empresaID, tr.ID))
	assert.Empty(t, repo.tributos)
}
