package main

import (
	"TutorHub/internal/bootstrap"
	pkg "TutorHub/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()
	app := fx.New(
		pkg.EchoModules,
	)
	app.Run()
}
