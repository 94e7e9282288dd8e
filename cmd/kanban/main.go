package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/simonjohansson/kanbandesk/internal/kanban"
)

func main() {
	os.Exit(kanban.Run(os.Args[1:], os.Stdout, os.Stderr, os.Environ()))
}
