/* bot_test.go
 * Contains unit tests for bot.go functions
 */

package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region NewBot tests

func TestNewBot_Success(t *testing.T) {
	apiPtr, _ := createTestAPI(t)
	bot, err := NewBot("test_token", apiPtr, Config{ChannelID: "channel123"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "test_token", bot.BotToken)
	assert.Same(t, apiPtr, bot.APIPtr)
	assert.Equal(t, 10*time.Minute, bot.Config.JanitorInterval)
	assert.NotNil(t, bot.Download)
}

func TestNewBot_MissingParameters(t *testing.T) {
	apiPtr, _ := createTestAPI(t)

	_, err := NewBot("", apiPtr, Config{ChannelID: "channel123"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "botToken is required")

	_, err = NewBot("test_token", nil, Config{ChannelID: "channel123"}, nil)
	assert.Error(t, err)

	_, err = NewBot("test_token", apiPtr, Config{}, nil)
	assert.Error(t, err)
}

// endregion

// region parseCommand tests

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		command  string
		args     []string
		expectOK bool
	}{
		{"plain command", "$help", "help", []string{}, true},
		{"leading space", "  $dive", "dive", []string{}, true},
		{"single argument", "$refresh arena", "refresh", []string{"arena"}, true},
		{"quoted argument", `$refresh "Arena Cube" Vintage`, "refresh", []string{"Arena Cube", "Vintage"}, true},
		{"curly quotes", "$refresh “Arena Cube”", "refresh", []string{"Arena Cube"}, true},
		{"repeated spaces", "$refresh  arena   vintage", "refresh", []string{"arena", "vintage"}, true},
		{"not a command", "went 3-0 with this", "", nil, false},
		{"dollar later", "paid $5 for this", "", nil, false},
		{"empty", "", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, args, ok := parseCommand(tt.content)
			assert.Equal(t, tt.expectOK, ok)
			assert.Equal(t, tt.command, command)
			if tt.expectOK {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

// endregion
