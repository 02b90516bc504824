// Applies the schema and seeds the stock plan descriptors. Safe to run more
// than once.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"ecoponto-backend/internal/config"
	pg "ecoponto-backend/internal/infra/db/postgres"
)

var stockPlans = []struct {
	id, planType, period string
}{
	{"plan-teste", "teste", "7 dias"},
	{"plan-mensal", "mensal", "30 dias"},
	{"plan-trimestral", "trimestral", "90 dias"},
	{"plan-semestral", "semestral", "180 dias"},
	{"plan-anual", "anual", "365 dias"},
	{"plan-trienal", "trienal", "1095 dias"},
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, pg.Schema); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	log.Println("schema applied")

	for _, p := range stockPlans {
		const q = `
INSERT INTO plan_descriptors (plan_id, plan_type, period, is_active)
SELECT $1, $2, $3, TRUE
 WHERE NOT EXISTS (SELECT 1 FROM plan_descriptors WHERE plan_id = $1);`
		if _, err := pool.Exec(ctx, q, p.id, p.planType, p.period); err != nil {
			log.Fatalf("seed plan %s: %v", p.id, err)
		}
	}
	log.Printf("seeded %d plan descriptors", len(stockPlans))
}
