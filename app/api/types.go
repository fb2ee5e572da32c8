package api

import (
	"github.com/Donny208/Hardware-Scrape/app/database"
	"github.com/Donny208/Hardware-Scrape/app/feed"
	"github.com/Donny208/Hardware-Scrape/app/tasks"
)

type StatsProvider interface {
	Snapshot() tasks.StatsSnapshot
}

var _ StatsProvider = (*tasks.Stats)(nil)

type Handler struct {
	configCache *feed.ConfigCache
	userRepo    database.UserRepository
	postRepo    database.PostRepository
	stats       StatsProvider
	version     string
}
