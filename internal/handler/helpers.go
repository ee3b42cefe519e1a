package handler

import (
	"errors"
	"net/http"
	"reflect"

	"orcamento/internal/apierror"
	"orcamento/internal/calculo"
	"orcamento/internal/middleware"
	"orcamento/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery binds and validates query parameters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// parseID reads a UUID path parameter, answering 400 when malformed.
func parseID(c *gin.Context, nome string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(nome))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido: "+nome))
		return uuid.Nil, false
	}
	return id, true
}

// secaoQuery reads the optional cenario_secao_id query parameter.
func secaoQuery(c *gin.Context) (*uuid.UUID, bool) {
	v := c.Query("cenario_secao_id")
	if v == "" {
		return nil, true
	}
	id, err := uuid.Parse(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cenario_secao_id inválido"))
		return nil, false
	}
	return &id, true
}

// responderErro maps service and engine errors to the HTTP contract.
// Anything unrecognized is logged and answered with a generic 500.
func responderErro(c *gin.Context, err error) {
	var ev *calculo.ErroValidacao
	var ec *calculo.ErroCiclo
	switch {
	case errors.As(err, &ev):
		fields := map[string]string{}
		if ev.Campo != "" {
			fields[ev.Campo] = ev.Mensagem
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidationDetail(ev.Error(), fields))
	case errors.As(err, &ec):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidationDetail(ec.Error(), map[string]string{"funcoes_base": "ciclo"}))
	case errors.Is(err, calculo.ErrCicloSpan), errors.Is(err, calculo.ErrPeriodoInvalido):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflito),
		errors.Is(err, service.ErrCenarioImutavel),
		errors.Is(err, service.ErrTransicaoInvalida):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Msg("erro não tratado")
		c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
	}
}
