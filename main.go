// Command goldgym serves the catalogue API: JWT-authenticated browsing of
// processed gym records. The badge pipeline itself lives in ./process.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"goldgym/pkg/config"
)

var jwtSecret []byte

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Lightweight migrate command: `./goldgym migrate` runs AutoMigrate and
	// role seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB(cfg.DSN)
		fmt.Println("migration and seeding completed")
		return
	}

	initDB(cfg.DSN)

	r := gin.Default()
	setupRoutes(r)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
