package router

import (
	"context"
	"os"

	"github.com/linecard/bpsync/cmd/cli/method"
	"github.com/linecard/bpsync/cmd/cli/param"
	"github.com/linecard/bpsync/pkg/sdk"

	"github.com/alexflint/go-arg"
)

type Root struct {
	Invoke *param.Invoke `arg:"subcommand:invoke" help:"Sync a blueprint for an event payload"`
	Config *param.Config `arg:"subcommand:config" help:"Print the resolved configuration"`
	Path   *param.Path   `arg:"subcommand:path" help:"Print the repository path for a blueprint name"`
	Serve  *param.Serve  `arg:"subcommand:serve" help:"Serve the webhook over HTTP"`
	param.GlobalOpts
}

func (c Root) Handle(ctx context.Context, api sdk.API) {
	switch {
	case c.Invoke != nil:
		method.InvokeAction(ctx, api, c.Invoke)

	case c.Config != nil:
		method.PrintConfig(ctx, api, c.Config)

	case c.Path != nil:
		method.PrintPath(ctx, api, c.Path)

	case c.Serve != nil:
		method.Serve(ctx, api, c.Serve)

	default:
		arg.MustParse(&c).WriteHelp(os.Stdout)
	}
}
