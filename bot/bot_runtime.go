//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go to avoid code duplication.
 */

package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"deckdump-bot/api/disambiguation"

	"github.com/bwmarrin/discordgo"
	"github.com/google/logger"
)

// Run starts the Discord bot and listens for messages and reactions until ctx is cancelled or the process is
// interrupted
func (b *Bot) Run(ctx context.Context) error {
	// create a session
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}
	discord.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentsMessageContent

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	b.ctx = ctx

	// add event handlers
	discord.AddHandler(b.newMessage)
	discord.AddHandler(b.reactionAdd)

	// open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer discord.Close() // close session, after function termination

	go b.APIPtr.Prompts.RunJanitor(ctx, b.Config.JanitorInterval,
		func(pending disambiguation.Pending) { b.expiredHandler(discord, pending) },
		func(err error) { logger.Warningf("Prompt janitor: %v", err) },
	)

	// keep bot running until there is an os interruption (ctrl + C)
	logger.Info("Deck Dump Bot started")
	<-ctx.Done()
	logger.Info("Shutting down, waiting for in flight submissions")
	b.Wait()
	return nil
}

// newMessage delegates to the testable newMessageHandler
// *discordgo.Session implements DiscordSession interface
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}

// reactionAdd delegates to the testable reactionHandler
func (b *Bot) reactionAdd(discord *discordgo.Session, reaction *discordgo.MessageReactionAdd) {
	b.reactionHandler(discord, reaction, discord.State.User.ID)
}
