package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordadapter "github.com/Gen1xLol/AIsemble/internal/adapters/discord"
	"github.com/Gen1xLol/AIsemble/internal/adapters/planner"
	"github.com/Gen1xLol/AIsemble/internal/app/service"
	"github.com/Gen1xLol/AIsemble/internal/infra/config"
	"github.com/Gen1xLol/AIsemble/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	approvalWindow  = 60 * time.Second
	staggerInterval = 3 * time.Minute
	statusTeardown  = 5 * time.Second
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// Store: postgres si hay DATABASE_URL, si no el documento JSON
	var repo service.ConfigRepo
	var runs service.RunsRepo = storage.NopRuns{}
	if cfg.DatabaseURL != "" {
		db, err := storage.OpenPostgres(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		repo = storage.NewConfigRepo(db)
		runs = storage.NewRunsRepo(db)
		log.Println("✅ DB lista y migrada")
	} else {
		js, err := storage.OpenJSON(cfg.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		repo = js
		log.Printf("✅ store JSON en %s", cfg.DBPath)
	}

	// Planner
	popts := []planner.Option{}
	if cfg.AIEndpoint != "" {
		popts = append(popts, planner.WithEndpoint(cfg.AIEndpoint))
	}
	if cfg.AIModel != "" {
		popts = append(popts, planner.WithModel(cfg.AIModel))
	}
	pc := planner.New(cfg.AIAPIKey, popts...)

	// Discord session
	auth := cfg.BotToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	// Services
	surface := discordadapter.NewSurface(s)
	gate := service.NewApprovalGate(approvalWindow)
	sched := service.NewReformScheduler(staggerInterval)
	reporter := service.NewStatusReporter(surface, statusTeardown)

	cfgSvc := service.NewConfigService(repo, surface)
	evalSvc := service.NewEvaluateService(pc, repo, surface)
	reformSvc := service.NewReformService(surface, pc, repo, runs, gate, sched, reporter)

	// Router
	r := discordadapter.NewRouter(s, cfg.BotOwnerID, cfgSvc, evalSvc, reformSvc)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()
	log.Println("✅ comandos globales registrados")

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}
