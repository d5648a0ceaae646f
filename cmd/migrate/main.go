package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/prefeitura-rio/app-personalizacao/internal/config"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

var (
	migrationsPath = flag.String("path", "file://migrations", "Diretório das migrações")
	steps          = flag.Int("steps", 0, "Quantidade de passos (0 = todos)")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Uso: %s <up|down|version> [opções]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Opções:\n")
		flag.PrintDefaults()
	}

	if len(os.Args) < 2 {
		flag.Usage()
		return exitFailure
	}

	command := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)
	flag.Parse()

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL é obrigatório")
		return exitFailure
	}

	m, err := migrate.New(*migrationsPath, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao criar instância de migração: %v\n", err)
		return exitFailure
	}
	defer func() { _, _ = m.Close() }()

	switch command {
	case "up", "down":
		if err := runMigration(m, command, *steps); err != nil {
			fmt.Fprintf(os.Stderr, "Migração %s falhou: %v\n", command, err)
			return exitFailure
		}
		fmt.Printf("Migração %s concluída\n", command)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("Nenhuma migração aplicada")
			return exitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Erro ao ler versão: %v\n", err)
			return exitFailure
		}
		fmt.Printf("Versão: %d (dirty: %v)\n", version, dirty)
	default:
		fmt.Fprintf(os.Stderr, "Comando desconhecido: %s\n", command)
		flag.Usage()
		return exitFailure
	}

	return exitSuccess
}

func runMigration(m *migrate.Migrate, direction string, n int) error {
	var err error

	switch {
	case n > 0 && direction == "down":
		err = m.Steps(-n)
	case n > 0:
		err = m.Steps(n)
	case direction == "up":
		err = m.Up()
	default:
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("Nenhuma migração a aplicar")
		return nil
	}

	return err
}
