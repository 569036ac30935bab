// Command server runs the PhoneAuth HTTP API, its gRPC health endpoint and
// the revocation janitor.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/phoneauth/internal/server"
	"github.com/dmitrijs2005/phoneauth/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phoneauth: %v\n", err)
		os.Exit(1)
	}

	app.Run(context.Background())

}
