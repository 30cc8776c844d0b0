package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"orderflow/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.AutomationSubscription{},
	))

	return db
}

// recordingDispatcher counts dispatches synchronously so tests can assert
// exact event counts without racing the real fan-out.
type recordingDispatcher struct {
	mu       sync.Mutex
	events   []string
	payloads []interface{}
}

func (d *recordingDispatcher) DispatchAsync(event string, payload interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	d.payloads = append(d.payloads, payload)
}

func (d *recordingDispatcher) count(event string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.events {
		if e == event {
			n++
		}
	}
	return n
}
