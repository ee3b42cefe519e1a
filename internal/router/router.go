package router

import (
	"time"

	"orcamento/internal/calculo"
	"orcamento/internal/config"
	"orcamento/internal/handler"
	"orcamento/internal/infra"
	"orcamento/internal/middleware"
	"orcamento/internal/repository"
	"orcamento/internal/service"
	"orcamento/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the Gin engine together with the
// calculation service, which the worker pool also consumes.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, calendario calculo.Calendario) (*gin.Engine, service.CalculoService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// order matters: request_id first so every later log line carries it
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigens))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	funcaoRepo := repository.NewFuncaoRepository(db)
	centroCustoRepo := repository.NewCentroCustoRepository(db)
	fornecedorRepo := repository.NewFornecedorRepository(db)
	tipoCustoRepo := repository.NewTipoCustoRepository(db)
	tipoReceitaRepo := repository.NewTipoReceitaRepository(db)
	empresaRepo := repository.NewEmpresaRepository(db)
	cenarioRepo := repository.NewCenarioRepository(db)
	quadroRepo := repository.NewQuadroRepository(db)
	premissaRepo := repository.NewPremissaRepository(db)
	custoRepo := repository.NewCustoRepository(db)
	receitaRepo := repository.NewReceitaRepository(db)
	resultadoRepo := repository.NewResultadoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	var cache service.Cache
	var estadoCache func() string
	if cfg.DRECacheTTL() > 0 {
		redisCache := infra.NewRedisCache(rdb)
		cache = redisCache
		estadoCache = func() string { return redisCache.EstadoDisjuntor().String() }
	}

	calculoSvc := service.NewCalculoService(cenarioRepo, resultadoRepo, calendario, cache, cfg.DRECacheTTL(), dispatcher)
	cenarioSvc := service.NewCenarioService(cenarioRepo, empresaRepo, centroCustoRepo)
	quadroSvc := service.NewQuadroService(cenarioRepo, quadroRepo, funcaoRepo)
	premissaSvc := service.NewPremissaService(cenarioRepo, premissaRepo, tipoCustoRepo)
	custoSvc := service.NewCustoService(cenarioRepo, custoRepo, tipoCustoRepo)
	receitaSvc := service.NewReceitaService(cenarioRepo, receitaRepo, tipoReceitaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	empresasH := handler.NewEmpresasHandler(service.NewEmpresaService(empresaRepo))
	funcoesH := handler.NewCatalogoHandler(service.NewFuncaoService(funcaoRepo))
	centrosH := handler.NewCatalogoHandler(service.NewCentroCustoService(centroCustoRepo))
	fornecedoresH := handler.NewCatalogoHandler(service.NewFornecedorService(fornecedorRepo))
	tiposCustoH := handler.NewCatalogoHandler(service.NewTipoCustoService(tipoCustoRepo))
	tiposReceitaH := handler.NewCatalogoHandler(service.NewTipoReceitaService(tipoReceitaRepo))

	cenariosH := handler.NewCenariosHandler(cenarioSvc)
	quadroH := handler.NewQuadroHandler(quadroSvc)
	premissasH := handler.NewPremissasHandler(premissaSvc)
	custosH := handler.NewCustosHandler(custoSvc)
	receitasH := handler.NewReceitasHandler(receitaSvc)
	calculoH := handler.NewCalculoHandler(calculoSvc)
	filaH := handler.NewFilaHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, estadoCache))

	leitura := middleware.RequireRole(middleware.PapelLeitor, middleware.PapelAnalista, middleware.PapelAprovador, middleware.PapelAdministrador)
	edicao := middleware.RequireRole(middleware.PapelAnalista, middleware.PapelAdministrador)
	aprovacao := middleware.RequireRole(middleware.PapelAprovador, middleware.PapelAdministrador)
	admin := middleware.RequireRole(middleware.PapelAdministrador)
	limiteCalculo := middleware.CalculoRateLimiter(cfg.CalculoPorMinuto, time.Minute)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		// Catalogs: everyone reads, administrador writes
		empresasH.Registrar(v1.Group("/empresas"), leitura, admin)
		funcoesH.Registrar(v1.Group("/funcoes"), leitura, admin)
		centrosH.Registrar(v1.Group("/centros-custo"), leitura, admin)
		fornecedoresH.Registrar(v1.Group("/fornecedores"), leitura, admin)
		tiposCustoH.Registrar(v1.Group("/tipos-custo"), leitura, admin)
		tiposReceitaH.Registrar(v1.Group("/tipos-receita"), leitura, admin)

		emp := v1.Group("/empresas/:id")
		{
			emp.GET("/tributos", leitura, empresasH.ListarTributos)
			emp.POST("/tributos", admin, empresasH.CriarTributo)
			emp.DELETE("/tributos/:tributo_id", admin, empresasH.ExcluirTributo)
			emp.GET("/encargos", leitura, empresasH.ListarEncargos)
			emp.POST("/encargos", admin, empresasH.CriarEncargo)
			emp.DELETE("/encargos/:encargo_id", admin, empresasH.ExcluirEncargo)
			emp.POST("/gerar-padroes", admin, empresasH.GerarPadroes)
		}

		v1.POST("/cenarios", edicao, cenariosH.Criar)
		v1.GET("/cenarios", leitura, cenariosH.Listar)

		cen := v1.Group("/cenarios/:id")
		{
			cen.GET("", leitura, cenariosH.ObterPorID)
			cen.PUT("", edicao, cenariosH.Atualizar)
			cen.DELETE("", edicao, cenariosH.Excluir)
			cen.PATCH("/status", aprovacao, cenariosH.AlterarStatus)
			cen.POST("/duplicar", edicao, cenariosH.Duplicar)

			// estrutura
			cen.GET("/estrutura", leitura, cenariosH.Estrutura)
			cen.POST("/empresas", edicao, cenariosH.AdicionarEmpresa)
			cen.POST("/clientes", edicao, cenariosH.AdicionarCliente)
			cen.POST("/secoes", edicao, cenariosH.AdicionarSecao)
			cen.PATCH("/secoes/:secao_id", edicao, cenariosH.AtualizarSecao)
			cen.POST("/centros-custo", edicao, cenariosH.AdicionarCentroCusto)

			// quadro de pessoal
			cen.POST("/quadro", edicao, quadroH.Criar)
			cen.GET("/quadro", leitura, quadroH.Listar)
			cen.GET("/quadro/:quadro_id", leitura, quadroH.ObterPorID)
			cen.PUT("/quadro/:quadro_id", edicao, quadroH.Atualizar)
			cen.DELETE("/quadro/:quadro_id", edicao, quadroH.Excluir)

			cen.POST("/spans", edicao, quadroH.CriarSpan)
			cen.GET("/spans", leitura, quadroH.ListarSpans)
			cen.DELETE("/spans/:span_id", edicao, quadroH.ExcluirSpan)
			cen.POST("/spans/calcular", edicao, quadroH.CalcularSpans)

			cen.POST("/rateio-grupos", edicao, quadroH.CriarGrupo)
			cen.GET("/rateio-grupos", leitura, quadroH.ListarGrupos)
			cen.DELETE("/rateio-grupos/:grupo_id", edicao, quadroH.ExcluirGrupo)

			// premissas
			cen.PUT("/premissas-funcao", edicao, premissasH.SalvarPremissasFuncao)
			cen.GET("/premissas-funcao", leitura, premissasH.ListarPremissasFuncao)
			cen.POST("/rubricas", edicao, premissasH.CriarRubrica)
			cen.GET("/rubricas", leitura, premissasH.ListarRubricas)
			cen.DELETE("/rubricas/:rubrica_id", edicao, premissasH.ExcluirRubrica)

			// custos e receitas
			cen.POST("/custos", edicao, custosH.CriarCusto)
			cen.GET("/custos", leitura, custosH.ListarCustos)
			cen.DELETE("/custos/:custo_id", edicao, custosH.ExcluirCusto)
			cen.POST("/alocacoes-tecnologia", edicao, custosH.CriarAlocacao)
			cen.GET("/alocacoes-tecnologia", leitura, custosH.ListarAlocacoes)
			cen.DELETE("/alocacoes-tecnologia/:alocacao_id", edicao, custosH.ExcluirAlocacao)

			cen.POST("/receitas", edicao, receitasH.Criar)
			cen.GET("/receitas", leitura, receitasH.Listar)
			cen.DELETE("/receitas/:receita_id", edicao, receitasH.Excluir)

			// cálculo
			cen.POST("/calcular", edicao, limiteCalculo, calculoH.CalcularFolha)
			cen.POST("/calcular-tecnologia", edicao, limiteCalculo, calculoH.CalcularTecnologia)
			cen.POST("/calcular-receitas", edicao, limiteCalculo, calculoH.CalcularReceitas)
			cen.POST("/calcular-tudo", edicao, limiteCalculo, calculoH.CalcularTudo)
			cen.POST("/recalcular", edicao, limiteCalculo, calculoH.Recalcular)
			cen.GET("/dre", leitura, calculoH.DRE)
			cen.GET("/receitas-calculadas", leitura, calculoH.ReceitasCalculadas)
		}

		v1.GET("/receitas/:id", leitura, receitasH.ObterPorID)
		v1.POST("/receitas/:id/premissas/bulk", edicao, receitasH.SalvarPremissas)

		v1.GET("/fila/falhas", admin, filaH.Falhas)
		v1.POST("/fila/falhas/reprocessar", admin, filaH.Reprocessar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, calculoSvc
}
