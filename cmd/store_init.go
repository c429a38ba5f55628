package main

import (
	"github.com/lucen-labs/irreview/internal/store"
)

func initStore() (store.Store, error) {
	return store.NewSQLite(cfg.Store.Path)
}
