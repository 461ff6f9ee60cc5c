package main

import (
	"log"

	"github.com/marker-app/marker/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ marker failed to start: %v", err)
	}
}
