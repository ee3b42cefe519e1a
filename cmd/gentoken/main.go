// cmd/gentoken issues a bearer token for local development, signed with
// JWT_SECRET. Production tokens come from the identity provider.
// Uso: go run ./cmd/gentoken -papel analista -horas 8
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"orcamento/internal/config"
	"orcamento/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	papel := flag.String("papel", middleware.PapelAnalista, "leitor | analista | aprovador | administrador")
	nome := flag.String("nome", "Usuário Dev", "nome no token")
	horas := flag.Int("horas", 8, "validade em horas")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET não definido")
		os.Exit(1)
	}

	agora := time.Now()
	claims := middleware.JWTClaims{
		UsuarioID: uuid.NewString(),
		Nome:      *nome,
		Papel:     *papel,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(agora),
			ExpiresAt: jwt.NewNumericDate(agora.Add(time.Duration(*horas) * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		fmt.Fprintln(os.Stderr, "assinar token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
