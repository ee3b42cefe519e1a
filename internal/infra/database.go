package infra

import (
	"fmt"

	"orcamento/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection and brings the schema up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// modelos lists every persisted entity in dependency order.
func modelos() []interface{} {
	return []interface{}{
		// catálogos
		&model.Empresa{},
		&model.Tributo{},
		&model.Encargo{},
		&model.Funcao{},
		&model.CentroCusto{},
		&model.Fornecedor{},
		&model.TipoCusto{},
		&model.TipoReceita{},
		// árvore do cenário
		&model.Cenario{},
		&model.CenarioEmpresa{},
		&model.CenarioCliente{},
		&model.CenarioSecao{},
		&model.CenarioCentroCusto{},
		// quadro e premissas
		&model.RateioGrupo{},
		&model.QuadroPessoal{},
		&model.QuadroQuantidade{},
		&model.FuncaoSpan{},
		&model.FuncaoSpanBase{},
		&model.PremissaFuncao{},
		&model.CenarioRubrica{},
		// custos e receitas
		&model.CustoDireto{},
		&model.AlocacaoTecnologia{},
		&model.RateioDestino{},
		&model.ReceitaCenario{},
		&model.PremissaReceita{},
		// resultados
		&model.CustoCalculado{},
		&model.ReceitaCalculada{},
		&model.CalculoPendencia{},
	}
}

// RunMigrations runs AutoMigrate and then the patches GORM cannot express.
// Integration tests call it against a fresh container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(modelos()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that struct tags cannot describe:
// partial unique indexes and check constraints.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// one span per function and scope; a NULL seção is its own scope
		{"span por seção", `CREATE UNIQUE INDEX IF NOT EXISTS idx_funcao_span_secao
			ON funcao_spans (cenario_id, cenario_secao_id, funcao_id)
			WHERE cenario_secao_id IS NOT NULL`},
		{"span do cenário", `CREATE UNIQUE INDEX IF NOT EXISTS idx_funcao_span_cenario
			ON funcao_spans (cenario_id, funcao_id)
			WHERE cenario_secao_id IS NULL`},
		{"status do cenário", `DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cenarios_status') THEN
		    ALTER TABLE cenarios ADD CONSTRAINT chk_cenarios_status
		      CHECK (status IN ('RASCUNHO', 'APROVADO', 'BLOQUEADO'));
		  END IF;
		END $$`},
		{"passe dos custos calculados", `DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_custos_calculados_passe') THEN
		    ALTER TABLE custos_calculados ADD CONSTRAINT chk_custos_calculados_passe
		      CHECK (passe IN ('FOLHA', 'TECNOLOGIA', 'RECEITA'));
		  END IF;
		END $$`},
		// DRE reads by scenario and year
		{"dre por ano", `CREATE INDEX IF NOT EXISTS idx_custos_calculados_dre
			ON custos_calculados (cenario_id, ano, conta_codigo)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
