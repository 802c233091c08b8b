// Command server runs the lexical ambiguity analysis HTTP API.
package main

import (
	"log"

	"github.com/lexiguard/lexiguard-backend/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
