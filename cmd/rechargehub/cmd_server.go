package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/rechargehub/app/routes"
	"github.com/shashiranjanraj/rechargehub/config"
	"github.com/shashiranjanraj/rechargehub/internal/server"
	"github.com/shashiranjanraj/rechargehub/pkg/auth"
	"github.com/shashiranjanraj/rechargehub/pkg/router"
)

// rechargehub serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		app, err := server.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		return app.Start(cmd.Context())
	},
}

// rechargehub route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Mount with zero-value controllers; handlers are never invoked.
		r := router.New()
		routes.RegisterAPI(r, routes.Controllers{}, auth.NewTokenManager(""), &config.Config{PhotoDisk: "inline"})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
