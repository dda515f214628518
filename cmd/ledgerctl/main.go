// ledgerctl tareas administrativas del ledger: migraciones, siembra y auditoría de umbrales,
// alta de empresas y consulta de costos de CO2.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jhoicas/co2-ledger/cmd/ledgerctl/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
