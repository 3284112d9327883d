package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	coordinatorx "github.com/salesdesk/quoting-agent/agent/agents/coordinator"
	lookupx "github.com/salesdesk/quoting-agent/agent/agents/lookup"
	catalogx "github.com/salesdesk/quoting-agent/agent/catalog"
	llmx "github.com/salesdesk/quoting-agent/agent/llm"
	pricingx "github.com/salesdesk/quoting-agent/agent/pricing"
	promotionx "github.com/salesdesk/quoting-agent/agent/promotion"
	quotex "github.com/salesdesk/quoting-agent/agent/quote"
	statex "github.com/salesdesk/quoting-agent/agent/state"
	toolx "github.com/salesdesk/quoting-agent/agent/tool"
	configx "github.com/salesdesk/quoting-agent/pkg/config"
	_ "github.com/salesdesk/quoting-agent/pkg/logger/autoload"
	openrouterx "github.com/salesdesk/quoting-agent/pkg/openrouter"
)

type AppConfig struct {
	CatalogPath    string `envconfig:"CATALOG_PATH" split_words:"true" default:"data/catalog.csv"`
	PricePath      string `envconfig:"PRICE_PATH" split_words:"true" default:"data/price_list.csv"`
	PromotionsPath string `envconfig:"PROMOTIONS_PATH" split_words:"true" default:"data/promotions.json"`
	OutputDir      string `envconfig:"OUTPUT_DIR" split_words:"true" default:"output"`
	PostgresDSN    string `envconfig:"POSTGRES_DSN" split_words:"true"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("APP")

	var catalogSrc catalogx.Source
	if dsn := strings.TrimSpace(appCfg.PostgresDSN); dsn != "" {
		catalogSrc = catalogx.NewPostgresSource(dsn)
	} else {
		catalogSrc = catalogx.NewCSVSource(appCfg.CatalogPath, appCfg.PricePath)
	}

	catalogStore := catalogx.NewStore(ctx, catalogSrc)
	promoStore := promotionx.NewStore(ctx, promotionx.NewFileSource(appCfg.PromotionsPath))

	engine := pricingx.NewEngine(catalogStore)
	generator := quotex.NewGenerator(engine, quotex.NewWriter(appCfg.OutputDir))
	gateway := toolx.NewGateway(
		lookupx.NewCatalogAgent(catalogStore),
		lookupx.NewPromotionsAgent(promoStore),
		generator,
	)

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if openrouterx.NewClient(llmCfg.OpenRouterFor(llmx.RolePlanner)) == nil {
		log.Fatal().Msg("openrouter api key is missing")
	}
	planner, responder, err := coordinatorx.NewLLM(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize llm planner and responder")
	}

	svc, err := coordinatorx.New(newSessionStore(), planner, responder, gateway)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize coordinator")
	}

	runREPL(ctx, svc)
}

// newSessionStore prefers Upstash Redis when configured and falls back to
// the in-memory store, which only lives as long as the process.
func newSessionStore() statex.Store {
	cfg, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	if err != nil {
		log.Warn().Err(err).Msg("upstash redis not configured, sessions are in-memory only")
		return statex.NewMemoryStore()
	}

	store, err := statex.NewUpstashRedisStore(*cfg)
	if err != nil {
		log.Warn().Err(err).Msg("upstash redis unavailable, sessions are in-memory only")
		return statex.NewMemoryStore()
	}
	return store
}

func runREPL(ctx context.Context, svc *coordinatorx.Coordinator) {
	printBanner()

	sessionID := uuid.NewString()
	fmt.Println("Assistant: Hi! How can I help you today?")
	printSeparator()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nAssistant: Goodbye!")
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "salir", "exit", "quit":
			fmt.Println("\nAssistant: Goodbye! Have a great day.")
			return
		case "nuevo", "new":
			sessionID = uuid.NewString()
			fmt.Println("\nStarting a new quote...")
			fmt.Println("Assistant: Done! Let's start a new quote. What products do you need?")
			printSeparator()
			continue
		case "ayuda", "help":
			printHelp()
			printSeparator()
			continue
		}

		reply, err := svc.HandleMessage(ctx, sessionID, input)
		if err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("handle message")
			fmt.Println("\nAssistant: Sorry, something went wrong. Please try again or type 'help'.")
			printSeparator()
			continue
		}

		fmt.Println("\nAssistant:", reply)
		printSeparator()
	}
}

func printBanner() {
	fmt.Println("==============================================")
	fmt.Println("            SALES QUOTING ASSISTANT")
	fmt.Println("==============================================")
	fmt.Println()
	fmt.Println("This assistant helps you build sales quotes for your customers.")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  - Type your request naturally")
	fmt.Println("  - 'exit' (or 'salir', 'quit') to leave")
	fmt.Println("  - 'new' (or 'nuevo') to start a fresh quote")
	fmt.Println("  - 'help' (or 'ayuda') for instructions")
	fmt.Println()
}

func printHelp() {
	fmt.Println(`
The assistant walks you through building a quote:

1. PRODUCTS: tell it what products you need
   e.g. "I need a quote for a 24cm frying pan"
2. QUANTITIES: confirm how many of each
3. PAYMENT: cash, wire transfer, or credit card
4. PROMOTIONS: with a credit card, it can look up bank promotions
5. CUSTOMER: name, email and phone for the quote header
6. GENERATE: the assistant writes the final quote file`)
}

func printSeparator() {
	fmt.Println("\n" + strings.Repeat("-", 60) + "\n")
}
