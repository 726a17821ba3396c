package main

import (
	"github.com/haguru/obito/config"
	"github.com/haguru/obito/internal/app"
)

func main() {

	// create and initialize the app
	app, err := app.NewApp(config.CONFIG_PATH)
	if err != nil {
		panic(err) // handle error appropriately in production code
	}

	// run the app
	// This will start the server and handle routes as defined in the app package.
	err = app.Run()
	if err != nil {
		panic(err) // handle error appropriately in production code
	}
}
