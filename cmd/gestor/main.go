// @title           CFLOW Gestor API
// @version         1.0
// @description     Multi-tenant CRM for consórcio sales teams.
// @BasePath        /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization

// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key

// @securityDefinitions.apikey WebhookToken
// @in header
// @name asaas-access-token

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/cli/migrate"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/cli/reconcile"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gestor",
		Short: "CFLOW Gestor - CRM backend for consórcio sales teams",
		Long:  `gestor serves the multi-tenant CRM API, applies database migrations and runs the subscription reconciliation sweep.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		reconcile.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
