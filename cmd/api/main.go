package main

import (
	"go.uber.org/fx"

	"github.com/oakworks/orderhub/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
