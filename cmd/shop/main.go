package main

import (
	"context"
	"os"

	"github.com/niksmo/cloudshop/internal/adapter/cli"
	"github.com/niksmo/cloudshop/internal/app"
	"github.com/niksmo/cloudshop/pkg/sigctx"
)

func main() {
	sigCtx, stop := sigctx.NotifyContext(context.Background())

	code := cli.Execute(sigCtx, cli.NewRootCommand(app.NewShop), os.Stderr)

	stop()
	os.Exit(code)
}
