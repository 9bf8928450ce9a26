/* main.go
 * The "main" method for running the bot. Configuration is read from the environment, see config/config.go
 * Usage: go run main.go -env=".env" -log="deckdump.log"
 */

package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	api "deckdump-bot/api/api"
	"deckdump-bot/api/cubes"
	"deckdump-bot/api/disambiguation"
	"deckdump-bot/api/external"
	"deckdump-bot/api/store"
	bot "deckdump-bot/bot"
	"deckdump-bot/config"
	"deckdump-bot/web"

	"github.com/google/logger"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	//Flags
	envPtr := flag.String("env", ".env", "Path to the .env file, missing file is not an error")
	logPtr := flag.String("log", "", "Also write logs to this file")
	verbosePtr := flag.Bool("verbose", true, "Write logs to stdout")

	flag.Parse()

	var logFile io.Writer = io.Discard
	if *logPtr != "" {
		f, err := os.OpenFile(*logPtr, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
		if err != nil {
			logger.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logFile = f
	}
	defer logger.Init("DeckDumpBot", *verbosePtr, false, logFile).Close()

	if err := godotenv.Load(*envPtr); err != nil {
		logger.Infof("No env file loaded from %s: %v", *envPtr, err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := cubes.Load(cfg.CubesFile)
	if err != nil {
		logger.Fatalf("Failed to load cubes: %v", err)
	}
	logger.Infof("Loaded %d cubes from %s", catalog.Len(), cfg.CubesFile)

	sheets, err := external.NewSheetsWriter(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		logger.Fatalf("Failed to create sheets client: %v", err)
	}

	var promptStore disambiguation.Store
	if cfg.Persistent() {
		s, err := store.NewStore(ctx, cfg.MongoDB, cfg.MongoURI)
		if err != nil {
			logger.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := s.Close(context.Background()); err != nil {
				logger.Errorf("Failed to disconnect from MongoDB: %v", err)
			}
		}()
		if err := s.EnsureIndexes(ctx); err != nil {
			logger.Warningf("Failed to create pending prompt indexes: %v", err)
		}
		promptStore = s
	}

	prompts := disambiguation.NewCoordinator(cfg.PromptTTL, promptStore)
	restored, err := prompts.Restore(ctx)
	if err != nil {
		logger.Warningf("Failed to restore pending prompts: %v", err)
	} else if restored > 0 {
		logger.Infof("Restored %d pending prompts", restored)
	}

	apiPtr, err := api.NewAPI(catalog, sheets, prompts)
	if err != nil {
		logger.Fatalf("Failed to initialize API: %v", err)
	}

	fetcher := external.NewCubeCobraClient("")
	deckBot, err := bot.NewBot(cfg.DiscordToken, apiPtr, bot.Config{
		ChannelID:   cfg.ChannelID,
		CubesFile:   cfg.CubesFile,
		AdminRoleID: cfg.AdminRoleID,
	}, fetcher)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return deckBot.Run(ctx) })
	if cfg.WebhookAddr != "" {
		group.Go(func() error {
			return web.Start(ctx, web.Config{
				Addr:      cfg.WebhookAddr,
				Secret:    cfg.WebhookSecret,
				CubesFile: cfg.CubesFile,
				API:       apiPtr,
				Fetcher:   fetcher,
			})
		})
	}

	if err := group.Wait(); err != nil {
		logger.Errorf("Stopped with error: %v", err)
	}
}
