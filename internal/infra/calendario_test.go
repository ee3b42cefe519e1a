package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalendario(t *testing.T) {
	raw := []byte(`
feriados:
  - data: 2025-01-01
    nome: Confraternização Universal
  - data: 2025-03-04
    nome: Carnaval
`)
	cal, err := ParseCalendario(raw)
	require.NoError(t, err)

	// janeiro/2025 has 23 weekdays, one of them a holiday
	assert.Equal(t, 22, cal.DiasUteis(2025, 1))
	assert.Equal(t, 20, cal.DiasUteis(2025, 3))
	assert.Equal(t, 20, cal.DiasUteis(2025, 2))
}

func TestParseCalendario_DataInvalida(t *testing.T) {
	_, err := ParseCalendario([]byte("feriados:\n  - data: 01/01/2025\n    nome: Ano Novo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ano Novo")
}

func TestParseCalendario_YAMLInvalido(t *testing.T) {
	_, err := ParseCalendario([]byte("feriados: nenhum"))
	assert.Error(t, err)
}

func TestCarregarCalendario(t *testing.T) {
	cal, err := CarregarCalendario("")
	require.NoError(t, err)
	assert.Equal(t, 23, cal.DiasUteis(2025, 1))

	path := filepath.Join(t.TempDir(), "feriados.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feriados:\n  - data: 2025-01-01\n    nome: Ano Novo\n"), 0o600))
	cal, err = CarregarCalendario(path)
	require.NoError(t, err)
	assert.Equal(t, 22, cal.DiasUteis(2025, 1))

	_, err = CarregarCalendario(filepath.Join(t.TempDir(), "nao-existe.yaml"))
	assert.Error(t, err)
}
