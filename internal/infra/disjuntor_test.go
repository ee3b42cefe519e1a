package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRedis = errors.New("dial tcp: connection refused")

func disjuntorComRelogio(cfg ConfigDisjuntor) (*Disjuntor, *time.Time) {
	agora := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NovoDisjuntor(cfg)
	d.agora = func() time.Time { return agora }
	return d, &agora
}

func TestDisjuntor_AbreAposFalhasConsecutivas(t *testing.T) {
	d, _ := disjuntorComRelogio(ConfigDisjuntor{FalhasParaAbrir: 3})

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, d.Executar(func() error { return errRedis }), errRedis)
	}
	// a success resets the count
	require.NoError(t, d.Executar(func() error { return nil }))
	for i := 0; i < 3; i++ {
		_ = d.Executar(func() error { return errRedis })
	}
	assert.Equal(t, Aberto, d.Estado())

	chamou := false
	err := d.Executar(func() error { chamou = true; return nil })
	assert.ErrorIs(t, err, ErrDisjuntorAberto)
	assert.False(t, chamou)
}

func TestDisjuntor_MeioAbertoFechaAposSucessos(t *testing.T) {
	d, agora := disjuntorComRelogio(ConfigDisjuntor{FalhasParaAbrir: 1, SucessosParaFechar: 2, TempoAberto: time.Minute})

	_ = d.Executar(func() error { return errRedis })
	require.Equal(t, Aberto, d.Estado())

	*agora = agora.Add(time.Minute)
	assert.Equal(t, MeioAberto, d.Estado())

	require.NoError(t, d.Executar(func() error { return nil }))
	assert.Equal(t, MeioAberto, d.Estado())
	require.NoError(t, d.Executar(func() error { return nil }))
	assert.Equal(t, Fechado, d.Estado())
}

func TestDisjuntor_FalhaNaSondagemReabre(t *testing.T) {
	d, agora := disjuntorComRelogio(ConfigDisjuntor{FalhasParaAbrir: 5, TempoAberto: time.Second})
	for i := 0; i < 5; i++ {
		_ = d.Executar(func() error { return errRedis })
	}
	*agora = agora.Add(2 * time.Second)
	require.Equal(t, MeioAberto, d.Estado())

	_ = d.Executar(func() error { return errRedis })
	assert.Equal(t, Aberto, d.Estado())
	assert.Equal(t, "aberto", d.Estado().String())
}
