package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // strings helps derive defaults from the channel identifier

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets; the channel id stays
// a string because Telegram accepts both numeric ids and @usernames.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port for the ops endpoints
	BotToken      string // Telegram bot credential token
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	ChannelID     string // gating channel: numeric id (e.g. -1001234567890) or @username
	ChannelInvite string // invite link shown to non-members
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is merged in first (existing
// environment wins).  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // best effort; absence of .env is not an error

	cfg := Config{
		Env:       must("APP_ENV"),      // environment (dev/test/prod)
		Port:      must("APP_PORT"),     // port to bind the ops HTTP server
		BotToken:  must("BOT_TOKEN"),    // Telegram credential, startup fails without it
		DBUser:    must("DB_USER"),      // database user
		DBPass:    os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:    must("DB_HOST"),      // database host
		DBPort:    must("DB_PORT"),      // database port
		DBName:    must("DB_NAME"),      // database name
		ChannelID: must("CHANNEL_ID"),   // channel whose membership gates the bot
	}

	cfg.ChannelInvite = os.Getenv("CHANNEL_INVITE")
	if cfg.ChannelInvite == "" {
		// A public channel id like "@movies" implies the canonical t.me link.
		// Private channels have no derivable link, so the invite must be set.
		if strings.HasPrefix(cfg.ChannelID, "@") {
			cfg.ChannelInvite = "https://t.me/" + strings.TrimPrefix(cfg.ChannelID, "@")
		} else {
			log.Fatalf("CHANNEL_INVITE is required when CHANNEL_ID is numeric: %q", cfg.ChannelID)
		}
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
