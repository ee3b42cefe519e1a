package infra

import (
	"errors"
	"sync"
	"time"
)

// EstadoDisjuntor is the state of a Disjuntor: fechado lets calls through,
// aberto fails them immediately, and meio-aberto lets probes through until
// enough succeed to close again.
type EstadoDisjuntor int

const (
	Fechado EstadoDisjuntor = iota
	Aberto
	MeioAberto
)

func (e EstadoDisjuntor) String() string {
	switch e {
	case Fechado:
		return "fechado"
	case Aberto:
		return "aberto"
	case MeioAberto:
		return "meio-aberto"
	}
	return "desconhecido"
}

var ErrDisjuntorAberto = errors.New("disjuntor aberto")

type ConfigDisjuntor struct {
	FalhasParaAbrir    int           // consecutive failures that trip it (default 5)
	SucessosParaFechar int           // consecutive probe successes that close it (default 2)
	TempoAberto        time.Duration // wait before probing (default 30s)
}

// Disjuntor is a circuit breaker. The DRE cache sits behind one so a Redis
// outage costs one fast miss per read instead of a network timeout.
type Disjuntor struct {
	mu       sync.Mutex
	cfg      ConfigDisjuntor
	estado   EstadoDisjuntor
	falhas   int
	sucessos int
	abertoEm time.Time
	agora    func() time.Time
}

func NovoDisjuntor(cfg ConfigDisjuntor) *Disjuntor {
	if cfg.FalhasParaAbrir <= 0 {
		cfg.FalhasParaAbrir = 5
	}
	if cfg.SucessosParaFechar <= 0 {
		cfg.SucessosParaFechar = 2
	}
	if cfg.TempoAberto <= 0 {
		cfg.TempoAberto = 30 * time.Second
	}
	return &Disjuntor{cfg: cfg, agora: time.Now}
}

func (d *Disjuntor) Estado() EstadoDisjuntor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.estadoLocked()
}

// estadoLocked moves aberto to meio-aberto once TempoAberto has passed.
func (d *Disjuntor) estadoLocked() EstadoDisjuntor {
	if d.estado == Aberto && d.agora().Sub(d.abertoEm) >= d.cfg.TempoAberto {
		d.estado = MeioAberto
		d.sucessos = 0
	}
	return d.estado
}

// Executar runs fn unless the breaker is open, and records its outcome.
func (d *Disjuntor) Executar(fn func() error) error {
	d.mu.Lock()
	if d.estadoLocked() == Aberto {
		d.mu.Unlock()
		return ErrDisjuntorAberto
	}
	d.mu.Unlock()

	err := fn()

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.falhou()
		return err
	}
	d.funcionou()
	return nil
}

func (d *Disjuntor) falhou() {
	d.falhas++
	if d.estado == MeioAberto || d.falhas >= d.cfg.FalhasParaAbrir {
		d.estado = Aberto
		d.abertoEm = d.agora()
		d.falhas = 0
		d.sucessos = 0
	}
}

func (d *Disjuntor) funcionou() {
	d.falhas = 0
	if d.estado != MeioAberto {
		return
	}
	d.sucessos++
	if d.sucessos >= d.cfg.SucessosParaFechar {
		d.estado = Fechado
		d.sucessos = 0
	}
}
