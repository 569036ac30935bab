// Command client is the PhoneAuth command-line client.
package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/phoneauth/internal/client/cli"
	"github.com/dmitrijs2005/phoneauth/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	if err := cli.NewRootCmd(app).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}

}
