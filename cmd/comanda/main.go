package main

import (
	"context"
	"os"

	"comanda/internal/pos"
	"comanda/pkg/logger"
)

func main() {
	mylog := logger.NewLogger("comanda")
	defer mylog.Sync()

	if err := pos.Execute(context.Background(), mylog, os.Args[1:]); err != nil {
		mylog.Action("service_exit").Error("service terminated with error", err)
		os.Exit(1)
	}
}
