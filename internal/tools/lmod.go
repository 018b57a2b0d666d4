package tools

import (
	"context"

	"opsinstall/internal/shell"
)

// Lmod implements installer.ModuleSystem. `module` is a shell function, so the
// Runner usually sources a site init script first.
type Lmod struct {
	Runner shell.Runner
}

func (l Lmod) Avail(ctx context.Context, product string) (string, error) {
	return l.Runner.Run(ctx, shell.Command{Script: "module --redirect -t -d avail " + shell.Quote(product)})
}

func (l Lmod) Show(ctx context.Context, module string) (string, error) {
	return l.Runner.Run(ctx, shell.Command{Script: "module --redirect show " + shell.Quote(module)})
}
