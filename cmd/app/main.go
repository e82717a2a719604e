package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"inventory-ledger/internal/adapters/cli"
	"inventory-ledger/internal/adapters/repl"
	"inventory-ledger/internal/ai"
	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"
	"inventory-ledger/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	schema := core.NewSchemaService(pool)
	if err := schema.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	migrated, err := schema.Migrate(ctx)
	if err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}
	for _, col := range migrated {
		log.Printf("[MIGRATE] converted %s to decimal", col)
	}

	products := core.NewProductService(pool)
	sales := core.NewSaleService(pool)
	purchases := core.NewPurchaseService(pool)
	reports := core.NewReportService(pool)

	var agent *ai.Agent
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, natural language entry disabled")
	} else {
		agent = ai.NewAgent(apiKey)
	}

	svc := app.NewAppService(products, sales, purchases, reports, agent)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
