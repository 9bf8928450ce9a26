/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 */

package bot

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"deckdump-bot/api/api"
	"deckdump-bot/api/disambiguation"
	"deckdump-bot/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/google/logger"
)

const savedReaction = "👍"

// submissionResult is what happened to a single attachment
type submissionResult int

const (
	submissionFailed submissionResult = iota
	submissionSaved
	submissionPrompted
)

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	if message.Author == nil || message.Author.ID == botUserID || message.Author.Bot {
		return
	}
	if message.ChannelID != b.Config.ChannelID {
		return
	}

	if command, args, ok := parseCommand(message.Content); ok {
		switch command {
		case "help":
			b.helpMessageHandler(session, message)
		case "cubes":
			b.cubesHandler(session, message)
		case "dive":
			b.dispatch("dive", func() { b.diveHandler(session, message, botUserID) })
		case "refresh":
			b.dispatch("refresh", func() { b.refreshHandler(session, message, args) })
		}
		return
	}

	for _, attachment := range message.Attachments {
		b.dispatch("submission", func() {
			b.submissionHandler(b.ctx, session, message.Message, attachment)
		})
	}
}

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Deck Dump Bot\n")
	res.WriteString("Post an Arena deck export (.txt) or a draft log (.json) in this channel and it will be saved to the cube's spreadsheet. ")
	res.WriteString("Put your record in the message (e.g. `3-0`) to save it with the deck.\n")
	res.WriteString("If the cube can't be worked out from the cards, I'll DM you a list of cubes to pick from with a reaction.\n")
	res.WriteString("`$cubes`: lists the cubes decks can be saved to\n")
	res.WriteString("`$dive`: saves the attachments of the last 200 messages in this channel\n")
	res.WriteString("`$refresh [cube ...]`: updates card lists from CubeCobra. Names that contain spaces need to be encased in \" (e.g. \"Arena Cube\")\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// cubesHandler handles the $cubes command with a DiscordSession interface
func (b *Bot) cubesHandler(session DiscordSession, message *discordgo.MessageCreate) {
	catalog := b.APIPtr.Catalog()
	if catalog.Len() == 0 {
		session.ChannelMessageSend(message.ChannelID, "No cubes are configured")
		return
	}

	var res strings.Builder
	res.WriteString("Decks can be saved to these cubes:\n")
	for _, cube := range catalog.Cubes() {
		res.WriteString(fmt.Sprintf("- %s (%d cards)\n", cube.Name, len(cube.Cards)))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// diveHandler handles the $dive command. Attachments of the last messages in the channel are submitted oldest first
func (b *Bot) diveHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	history, err := session.ChannelMessages(message.ChannelID, diveDepth, "", "", "")
	if err != nil {
		logger.Errorf("Failed to read channel history: %v", err)
		session.ChannelMessageSend(message.ChannelID, "An error occured reading the channel history")
		return
	}

	saved, prompted := 0, 0
	for _, old := range slices.Backward(history) {
		if old.Author == nil || old.Author.ID == botUserID || old.Author.Bot {
			continue
		}
		for _, attachment := range old.Attachments {
			switch b.submissionHandler(b.ctx, session, old, attachment) {
			case submissionSaved:
				saved++
			case submissionPrompted:
				prompted++
			}
		}
	}

	res := fmt.Sprintf("%d submissions saved to the sheet.", saved)
	if prompted > 0 {
		res += fmt.Sprintf(" %d are waiting for their submitter to pick a cube.", prompted)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// refreshHandler handles the $refresh command with a DiscordSession interface
func (b *Bot) refreshHandler(session DiscordSession, message *discordgo.MessageCreate, names []string) {
	if !b.isAdmin(message.Member) {
		session.ChannelMessageSend(message.ChannelID, "You don't have permission to refresh cubes")
		return
	}
	if b.Fetcher == nil {
		session.ChannelMessageSend(message.ChannelID, "Refreshing cubes is not configured")
		return
	}

	catalog, err := b.APIPtr.RefreshCubes(b.ctx, b.Fetcher, b.Config.CubesFile, names...)
	if err != nil {
		logger.Errorf("Failed to refresh cubes %v: %v", names, err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured refreshing cubes: %s", err))
		return
	}

	refreshed := names
	if len(refreshed) == 0 {
		refreshed = catalog.Names()
	}
	var res strings.Builder
	res.WriteString("Refreshed:\n")
	for _, name := range refreshed {
		if cube, err := catalog.Lookup(name); err == nil {
			res.WriteString(fmt.Sprintf("- %s (%d cards)\n", cube.Name, len(cube.Cards)))
		}
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

func (b *Bot) isAdmin(member *discordgo.Member) bool {
	if b.Config.AdminRoleID == "" {
		return true
	}
	return member != nil && slices.Contains(member.Roles, b.Config.AdminRoleID)
}

// submissionHandler runs one attachment through the pipeline and tells the submitter what happened
// Preconditions: Receives the message the attachment was posted with and the attachment
// Postconditions: The message gets a reaction when the submission was saved, the submitter is sent a prompt when a
// cube has to be chosen, and a DM explaining the problem otherwise
func (b *Bot) submissionHandler(ctx context.Context, session DiscordSession, message *discordgo.Message, attachment *discordgo.MessageAttachment) submissionResult {
	author := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	submission := api.Submission{
		Author:      author,
		Timestamp:   message.Timestamp,
		Content:     message.Content,
		Size:        attachment.Size,
		ContentType: attachment.ContentType,
	}

	if attachment.Size > 0 {
		data, err := b.Download(ctx, attachment.URL)
		if err != nil {
			logger.Errorf("Failed to download %s from %s: %v", attachment.Filename, author.Username, err)
			b.notify(session, shared.Notification{
				Recipient: author.UserID,
				Body:      fmt.Sprintf("I couldn't download %s, please post it again.", attachment.Filename),
			})
			return submissionFailed
		}
		submission.Data = data
	}

	outcome, err := b.APIPtr.Submit(ctx, submission)
	if err != nil {
		logger.Warningf("Submission %s from %s was not saved: %v", attachment.Filename, author.Username, err)
		b.notify(session, api.NotificationFor(author.UserID, err))
		return submissionFailed
	}

	if outcome.Persisted() {
		logger.Infof("Saved %s from %s to %s", outcome.Record.Describe(), author.Username, outcome.Cube)
		if err := session.MessageReactionAdd(message.ChannelID, message.ID, savedReaction); err != nil {
			logger.Warningf("Failed to react to message %s: %v", message.ID, err)
		}
		return submissionSaved
	}

	if err := b.sendPrompt(ctx, session, author, outcome); err != nil {
		logger.Errorf("Failed to prompt %s for a cube: %v", author.Username, err)
		return submissionFailed
	}
	return submissionPrompted
}

// sendPrompt DMs the submitter one message per prompt page, registers the prompt and adds the selector reactions
func (b *Bot) sendPrompt(ctx context.Context, session DiscordSession, author shared.User, outcome api.Outcome) error {
	channel, err := session.UserChannelCreate(author.UserID)
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}

	promptIDs := make([]string, 0, len(outcome.Pages))
	for i, page := range outcome.Pages {
		notification := api.PromptNotification(author.UserID, outcome.Record, page, i+1, len(outcome.Pages))
		sent, err := session.ChannelMessageSend(channel.ID, notification.Body)
		if err != nil {
			return fmt.Errorf("send prompt page %d: %w", i+1, err)
		}
		promptIDs = append(promptIDs, sent.ID)
	}

	if _, err := b.APIPtr.OpenPrompt(ctx, author, outcome, promptIDs); err != nil {
		return err
	}

	for i, page := range outcome.Pages {
		for _, selector := range page.Selectors() {
			if err := session.MessageReactionAdd(channel.ID, promptIDs[i], selector); err != nil {
				return fmt.Errorf("add selector %s: %w", selector, err)
			}
		}
	}
	return nil
}

// reactionHandler resolves a prompt when its submitter reacts to it
func (b *Bot) reactionHandler(session DiscordSession, reaction *discordgo.MessageReactionAdd, botUserID string) {
	if reaction.MessageReaction == nil || reaction.UserID == botUserID {
		return
	}

	resolution, ok, err := b.APIPtr.Choose(b.ctx, reaction.MessageID, reaction.UserID, reaction.Emoji.Name)
	if !ok {
		return
	}
	record := resolution.Pending.Record
	if err != nil {
		logger.Errorf("Failed to save %s from %s to %s: %v", record.Describe(), record.Submitter, resolution.Pool, err)
		b.notify(session, api.NotificationFor(reaction.UserID, err))
		return
	}

	logger.Infof("Saved %s from %s to %s", record.Describe(), record.Submitter, resolution.Pool)
	session.ChannelMessageSend(reaction.ChannelID, fmt.Sprintf("Saved your %s to %s.", record.Describe(), resolution.Pool))
}

// expiredHandler tells a submitter that their prompt timed out
func (b *Bot) expiredHandler(session DiscordSession, pending disambiguation.Pending) {
	logger.Infof("Prompt %s for %s expired", pending.ID, pending.Record.Submitter)
	b.notify(session, shared.Notification{
		Recipient: pending.Submitter,
		Body: fmt.Sprintf("No cube was picked for your %s from %s, so it was not saved. Post it again to retry.",
			pending.Record.Describe(), pending.Record.Timestamp),
	})
}

// notify sends a notification to its recipient by direct message
func (b *Bot) notify(session DiscordSession, notification shared.Notification) {
	channel, err := session.UserChannelCreate(notification.Recipient)
	if err != nil {
		logger.Errorf("Failed to open dm channel with %s: %v", notification.Recipient, err)
		return
	}
	if _, err := session.ChannelMessageSend(channel.ID, notification.Body); err != nil {
		logger.Errorf("Failed to send dm to %s: %v", notification.Recipient, err)
	}
}
