package main

import (
	"context"

	"github.com/linecard/bpsync/cmd/cli"
	"github.com/linecard/bpsync/cmd/handler"
	"github.com/linecard/bpsync/internal/tracing"
	"github.com/linecard/bpsync/internal/util"
)

func main() {
	util.SetLogLevel()

	tp, shutdown := tracing.InitOtel()
	defer shutdown()

	if util.InLambda() {
		handler.Listen(tp)
		return
	}

	cli.Invoke(context.Background())
}
