package main

import (
	"log"

	"ccp/internal/config"
	"ccp/internal/mock"
	"ccp/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	db, err := repos.OpenDB(cfg.Mock.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := repos.SeedDemo(db); err != nil {
		log.Fatal(err)
	}

	app := mock.New(db).App()

	log.Printf("[ccp-mock] starting on :%s", cfg.Mock.Port)
	log.Println("[ccp-mock] error injection endpoints available:")
	log.Println("  POST /admin/inject-error - configure error mode")
	log.Println("  GET  /admin/status       - view current config")
	log.Println("  POST /admin/reset        - reset to normal mode")

	if err := app.Listen(":" + cfg.Mock.Port); err != nil {
		log.Fatal(err)
	}
}
