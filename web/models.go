/* models.go
 * Contains the configuration and server structs for the maintenance webhook server
 */

package web

import (
	"sync"

	"deckdump-bot/api/api"
	"deckdump-bot/api/cubes"
)

// Config holds the configuration for the web server
type Config struct {
	Addr      string
	Secret    string
	CubesFile string
	API       *api.API
	Fetcher   cubes.CardFetcher
}

// Server is the HTTP server that handles webhook requests
type Server struct {
	api       *api.API
	fetcher   cubes.CardFetcher
	cubesFile string
	secret    string

	refreshes sync.WaitGroup
}

// NewServer creates a server from a config
func NewServer(cfg Config) *Server {
	return &Server{
		api:       cfg.API,
		fetcher:   cfg.Fetcher,
		cubesFile: cfg.CubesFile,
		secret:    cfg.Secret,
	}
}
