package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"optics-shop/internal/adapters/cli"
	"optics-shop/internal/adapters/repl"
	"optics-shop/internal/bootstrap"
	"optics-shop/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer func() {
		if err := rt.Close(ctx); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, rt.Service, os.Args[1:], os.Stdin, os.Stdout); err != nil {
			rt.Close(ctx)
			log.Fatal(err)
		}
		return
	}
	repl.Run(ctx, rt.Service, bufio.NewReader(os.Stdin), os.Stdout)
}
