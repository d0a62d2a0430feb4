package http

import (
	"github.com/nats-io/nats.go"
	"github.com/rutamapa/rutamapa/internal/adapters/postgres"
	"github.com/rutamapa/rutamapa/internal/adapters/valkey"
	"github.com/rutamapa/rutamapa/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Sessions *usecases.SessionManager
	Geocode  *usecases.GeocodeService
	History  *usecases.HistoryService
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
}
