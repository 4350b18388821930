package app

import (
	"time"

	"github.com/venique/rooster/config"
	"github.com/venique/rooster/model"
	"github.com/venique/rooster/store"
)

type App struct {
	store.Store
	Schema model.Schema
	config.Config
	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func (a App) Clock() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
