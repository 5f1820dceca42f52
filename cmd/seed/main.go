package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"incentoro/internal/config"
	"incentoro/internal/domain/model"
	pg "incentoro/internal/infra/db/postgres"
	"incentoro/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	toolRepo := pg.NewPostgresToolRepo(pool)
	toolUC := usecase.NewToolUseCase(toolRepo)

	// If tools already exist, do nothing
	tools, err := toolUC.List(ctx)
	if err != nil {
		log.Fatalf("list tools: %v", err)
	}
	if len(tools) > 0 {
		fmt.Printf("%d tools already present. No changes.\n", len(tools))
		for _, t := range tools {
			fmt.Printf("  - %s (%s%% cashback, $%s/mo)\n", t.Name, t.BaseCashbackPercent.StringFixed(0), t.Price.StringFixed(2))
		}
		return
	}

	seed := []struct {
		ID       string
		Name     string
		Percent  int64
		Price    string
		URL      string
		Category string
	}{
		{"koala-ai", "Koala AI", 5, "9.00", "https://koala.sh", "AI Tools"},
		{"frase", "Frase", 5, "14.99", "https://www.frase.io", "Marketing"},
		{"murf-ai", "Murf AI", 5, "19.00", "https://get.murf.ai", "AI Tools"},
		{"jasper-ai", "Jasper AI", 5, "24.00", "https://www.jasper.ai", "AI Tools"},
		{"semrush", "Semrush", 5, "119.95", "https://www.semrush.com", "Marketing"},
		{"canva-pro", "Canva Pro", 5, "12.99", "https://www.canva.com", "Design"},
		{"clickup", "ClickUp", 5, "7.00", "https://clickup.com", "Productivity"},
		{"surfer-seo", "Surfer SEO", 5, "59.00", "https://surferseo.com", "Marketing"},
		{"notion", "Notion", 5, "8.00", "https://www.notion.so", "Productivity"},
	}

	for _, s := range seed {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			log.Fatalf("seed %s: bad price: %v", s.ID, err)
		}
		t, err := model.NewMarketplaceTool(s.ID, s.Name, decimal.NewFromInt(s.Percent), price, s.URL, s.Category)
		if err != nil {
			log.Fatalf("seed %s: %v", s.ID, err)
		}
		if err := toolUC.Create(ctx, t); err != nil {
			log.Fatalf("create %s: %v", s.ID, err)
		}
		fmt.Printf("seeded %s\n", s.ID)
	}
	fmt.Printf("done: %d tools\n", len(seed))
}
