package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/offset122/PubInventoryTracker/internal/config"
	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/infra"
	"github.com/offset122/PubInventoryTracker/internal/repository"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// insightsCmd runs the insight pipeline for one user and renders the answer
// in the terminal.
type insightsCmd struct {
	email string
	kind  string
	raw   bool
}

func (*insightsCmd) Name() string     { return "insights" }
func (*insightsCmd) Synopsis() string { return "generate narrative insights for a user" }
func (*insightsCmd) Usage() string {
	return `insights -email <email> [-type sales|inventory|profit] [-raw]

Prints the generated insight as rendered Markdown, or verbatim with -raw.
`
}

func (c *insightsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "owner whose data is analysed")
	f.StringVar(&c.kind, "type", dto.InsightSales, "analysis focus")
	f.BoolVar(&c.raw, "raw", false, "print Markdown without rendering")
}

func (c *insightsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" {
		fmt.Fprintln(os.Stderr, "Error: -email is required.")
		return subcommands.ExitUsageError
	}
	switch c.kind {
	case dto.InsightSales, dto.InsightInventory, dto.InsightProfit:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown -type %q.\n", c.kind)
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		return subcommands.ExitFailure
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error connecting to postgres:", err)
		return subcommands.ExitFailure
	}
	gen, err := infra.NewTextGenerator(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building insight provider:", err)
		return subcommands.ExitFailure
	}

	user, err := repository.NewUserRepository(db).FindByEmail(ctx, c.email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: user %s not found: %v\n", c.email, err)
		return subcommands.ExitFailure
	}

	productRepo := repository.NewProductRepository(db)
	ledger := service.NewLedgerService(productRepo, repository.NewPurchaseRepository(db), repository.NewSaleRepository(db))
	analytics := service.NewAnalyticsService(repository.NewAnalyticsRepository(db), productRepo, ledger)
	insights := service.NewInsightService(productRepo, ledger, analytics, gen, nil, service.InsightOptions{
		Timeout:      cfg.AITimeout(),
		Currency:     cfg.Currency,
		BusinessName: cfg.BusinessName,
	})

	resp := insights.Generate(ctx, user.ID, service.InsightRequest{Type: c.kind})
	if resp.Error != "" {
		fmt.Fprintln(os.Stderr, "Warning:", resp.Error)
	}

	if c.raw {
		fmt.Println(resp.Insight)
		return subcommands.ExitSuccess
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Println(resp.Insight)
		return subcommands.ExitSuccess
	}
	out, err := r.Render(resp.Insight)
	if err != nil {
		fmt.Println(resp.Insight)
		return subcommands.ExitSuccess
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
