package infra

import (
	"fmt"
	"os"
	"time"

	"orcamento/internal/calculo"

	"gopkg.in/yaml.v2"
)

// arquivoCalendario is the layout of the holiday file:
//
//	feriados:
//	  - data: 2025-01-01
//	    nome: Confraternização Universal
type arquivoCalendario struct {
	Feriados []struct {
		Data string `yaml:"data"`
		Nome string `yaml:"nome"`
	} `yaml:"feriados"`
}

// CarregarCalendario reads the holiday YAML at path. An empty path yields a
// calendar with weekends only.
func CarregarCalendario(path string) (*calculo.CalendarioFeriados, error) {
	if path == "" {
		return calculo.NovoCalendario(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ler calendário: %w", err)
	}
	return ParseCalendario(raw)
}

func ParseCalendario(raw []byte) (*calculo.CalendarioFeriados, error) {
	var arq arquivoCalendario
	if err := yaml.Unmarshal(raw, &arq); err != nil {
		return nil, fmt.Errorf("calendário inválido: %w", err)
	}
	datas := make([]time.Time, 0, len(arq.Feriados))
	for _, f := range arq.Feriados {
		d, err := time.Parse("2006-01-02", f.Data)
		if err != nil {
			return nil, fmt.Errorf("feriado %q: data %q inválida", f.Nome, f.Data)
		}
		datas = append(datas, d)
	}
	return calculo.NovoCalendario(datas), nil
}
