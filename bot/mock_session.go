/* mock_session.go
 * Contains mock implementation of DiscordSession for testing
 */

package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// MockDiscordSession implements DiscordSession for testing purposes
type MockDiscordSession struct {
	mu     sync.Mutex
	nextID int

	// SentMessages stores all messages sent during tests
	SentMessages []MockMessage
	// Reactions stores all reactions added during tests
	Reactions []MockReaction
	// History is returned by ChannelMessages, newest first like the Discord API
	History []*discordgo.Message
	// ErrorToReturn allows tests to simulate errors
	ErrorToReturn error
}

// MockMessage represents a message sent to a channel
type MockMessage struct {
	ID        string
	ChannelID string
	Content   string
}

// MockReaction represents a reaction added to a message
type MockReaction struct {
	ChannelID string
	MessageID string
	Emoji     string
}

// DMChannelID is the id of the direct message channel the mock opens for a user
func DMChannelID(userID string) string {
	return "dm-" + userID
}

// ChannelMessageSend implements DiscordSession.ChannelMessageSend
func (m *MockDiscordSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}

	m.nextID++
	sent := MockMessage{
		ID:        fmt.Sprintf("mock_message_%d", m.nextID),
		ChannelID: channelID,
		Content:   content,
	}
	m.SentMessages = append(m.SentMessages, sent)

	return &discordgo.Message{
		ID:        sent.ID,
		ChannelID: channelID,
		Content:   content,
	}, nil
}

// ChannelMessages implements DiscordSession.ChannelMessages
func (m *MockDiscordSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	if limit < len(m.History) {
		return m.History[:limit], nil
	}
	return m.History, nil
}

// MessageReactionAdd implements DiscordSession.MessageReactionAdd
func (m *MockDiscordSession) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrorToReturn != nil {
		return m.ErrorToReturn
	}
	m.Reactions = append(m.Reactions, MockReaction{ChannelID: channelID, MessageID: messageID, Emoji: emojiID})
	return nil
}

// UserChannelCreate implements DiscordSession.UserChannelCreate
func (m *MockDiscordSession) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return &discordgo.Channel{
		ID:   DMChannelID(recipientID),
		Type: discordgo.ChannelTypeDM,
	}, nil
}

// GetLastMessage returns the last message sent, or empty MockMessage if none
func (m *MockDiscordSession) GetLastMessage() MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentMessages) == 0 {
		return MockMessage{}
	}
	return m.SentMessages[len(m.SentMessages)-1]
}

// MessagesTo returns the messages sent to a channel, in order
func (m *MockDiscordSession) MessagesTo(channelID string) []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sent []MockMessage
	for _, message := range m.SentMessages {
		if message.ChannelID == channelID {
			sent = append(sent, message)
		}
	}
	return sent
}

// ReactionsOn returns the reactions added to a message, in order
func (m *MockDiscordSession) ReactionsOn(messageID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var emojis []string
	for _, reaction := range m.Reactions {
		if reaction.MessageID == messageID {
			emojis = append(emojis, reaction.Emoji)
		}
	}
	return emojis
}

// ClearMessages clears all stored messages and reactions
func (m *MockDiscordSession) ClearMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = nil
	m.Reactions = nil
}

// NewMockDiscordSession creates a new MockDiscordSession for testing
func NewMockDiscordSession() *MockDiscordSession {
	return &MockDiscordSession{
		SentMessages: make([]MockMessage, 0),
	}
}
