// seeduser crea un usuario directamente en la base de datos. Pensado para el
// primer administrador de una instalación nueva.
//
//	go run ./cmd/seeduser -username admin -nombre "Administrador" -rol administrador -password '...'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/config"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/infra"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "nombre de usuario")
	nombre := flag.String("nombre", "", "nombre completo")
	rol := flag.String("rol", "cajero", "cajero | supervisor | administrador")
	password := flag.String("password", "", "contraseña inicial")
	flag.Parse()

	if *username == "" || *nombre == "" || *password == "" {
		flag.Usage()
		os.Exit(1)
	}
	switch *rol {
	case "cajero", "supervisor", "administrador":
	default:
		fmt.Fprintln(os.Stderr, "rol inválido:", *rol)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuración:", err)
		os.Exit(1)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "base de datos:", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash:", err)
		os.Exit(1)
	}

	usuario := model.Usuario{
		Username:     *username,
		Nombre:       *nombre,
		PasswordHash: string(hash),
		Rol:          *rol,
		Activo:       true,
	}
	if err := repository.NewUsuarioRepository(db).Create(context.Background(), &usuario); err != nil {
		fmt.Fprintln(os.Stderr, "crear usuario:", err)
		os.Exit(1)
	}
	fmt.Printf("usuario %s creado con id %s\n", usuario.Username, usuario.ID)
}
