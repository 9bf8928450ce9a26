/* config.go
 * Contains the process configuration read from the environment. main.go loads .env with godotenv before calling
 * FromEnv, so values can come from either
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"deckdump-bot/api/disambiguation"
)

const (
	DefaultCubesFile = "config/cubes.json"
	DefaultMongoDB   = "deckdump"
)

// Config holds everything main needs to wire the bot
type Config struct {
	DiscordToken          string
	ChannelID             string
	CubesFile             string
	GoogleCredentialsFile string
	MongoURI              string
	MongoDB               string
	PromptTTL             time.Duration
	AdminRoleID           string
	WebhookAddr           string
	WebhookSecret         string
}

// FromEnv reads the configuration from the environment
// Preconditions: None
// Postconditions: Returns the config with defaults applied, or an error naming every missing or invalid key
func FromEnv() (Config, error) {
	cfg := Config{
		DiscordToken:          os.Getenv("DISCORD_TOKEN"),
		ChannelID:             os.Getenv("CHANNEL_ID"),
		CubesFile:             getEnv("CUBES_FILE", DefaultCubesFile),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		MongoURI:              os.Getenv("MONGO_URI"),
		MongoDB:               getEnv("MONGO_DB", DefaultMongoDB),
		PromptTTL:             disambiguation.DefaultTTL,
		AdminRoleID:           os.Getenv("ADMIN_ROLE_ID"),
		WebhookAddr:           os.Getenv("WEBHOOK_ADDR"),
		WebhookSecret:         os.Getenv("WEBHOOK_SECRET"),
	}

	var errs []error
	if cfg.DiscordToken == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if cfg.ChannelID == "" {
		errs = append(errs, errors.New("CHANNEL_ID is required"))
	}
	if raw := os.Getenv("PROMPT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("PROMPT_TTL: %w", err))
		case ttl <= 0:
			errs = append(errs, fmt.Errorf("PROMPT_TTL must be positive, got %s", raw))
		default:
			cfg.PromptTTL = ttl
		}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// Persistent reports whether pending prompts should be stored in MongoDB
func (c Config) Persistent() bool {
	return c.MongoURI != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
