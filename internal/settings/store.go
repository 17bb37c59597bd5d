// Package settings provides typed access to tunable configuration rows
// through an explicit read-through cache. Reads fill the cache, writes
// and deletes invalidate it.
package settings

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/common/validation"
	"github.com/architect/natural-teacher/internal/settings/models"
)

const cacheTTL = time.Hour

type cachedValue struct {
	value     interface{}
	found     bool
	expiresAt time.Time
}

// Store is a read-through cache over the system_settings table.
type Store struct {
	mu    sync.RWMutex
	cache map[string]cachedValue
	now   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		cache: make(map[string]cachedValue),
		now:   time.Now,
	}
}

// Default is the process-wide store used by services.
var Default = NewStore()

// lookup returns the decoded value for key, consulting the cache first.
func (s *Store) lookup(key string) (interface{}, bool) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && s.now().Before(entry.expiresAt) {
		return entry.value, entry.found
	}

	var setting models.SystemSetting
	err := database.DB.Where("setting_key = ?", key).First(&setting).Error

	entry = cachedValue{expiresAt: s.now().Add(cacheTTL)}
	if err == nil {
		entry.value = castValue(setting.SettingValue, setting.ValueType)
		entry.found = true
	}

	s.mu.Lock()
	s.cache[key] = entry
	s.mu.Unlock()

	return entry.value, entry.found
}

// GetString returns the setting as a string, or def when absent.
func (s *Store) GetString(key, def string) string {
	if v, ok := s.lookup(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// GetInt returns the setting as an int, or def when absent.
func (s *Store) GetInt(key string, def int) int {
	if v, ok := s.lookup(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return def
}

// GetFloat returns the setting as a float64, or def when absent.
func (s *Store) GetFloat(key string, def float64) float64 {
	if v, ok := s.lookup(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

// GetBool returns the setting as a bool, or def when absent.
func (s *Store) GetBool(key string, def bool) bool {
	if v, ok := s.lookup(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Set creates or updates a setting and invalidates its cache entry.
// Rows marked not editable are left untouched.
func (s *Store) Set(setting *models.SystemSetting) error {
	if fieldErrors := validation.Validate(setting); fieldErrors != nil {
		return errors.Validation("invalid setting", validation.Describe(fieldErrors))
	}

	var existing models.SystemSetting
	err := database.DB.Where("setting_key = ?", setting.SettingKey).First(&existing).Error
	if err == nil {
		if !existing.IsEditable {
			return errors.Forbidden("setting is not editable")
		}
		existing.SettingValue = setting.SettingValue
		existing.ValueType = setting.ValueType
		existing.SettingGroup = setting.SettingGroup
		existing.Description = setting.Description
		if err := database.DB.Save(&existing).Error; err != nil {
			return errors.Internal("failed to update setting", err.Error())
		}
	} else {
		if err := database.DB.Create(setting).Error; err != nil {
			return errors.Internal("failed to create setting", err.Error())
		}
	}

	s.Invalidate(setting.SettingKey)
	return nil
}

// Invalidate drops a key from the cache; next read goes to the database.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
}

// InvalidateAll empties the cache.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]cachedValue)
	s.mu.Unlock()
}

func castValue(raw string, valueType models.ValueType) interface{} {
	switch valueType {
	case models.TypeInteger:
		n, _ := strconv.Atoi(raw)
		return n
	case models.TypeFloat:
		f, _ := strconv.ParseFloat(raw, 64)
		return f
	case models.TypeBoolean:
		b, _ := strconv.ParseBool(raw)
		return b
	case models.TypeJSON:
		var v interface{}
		if json.Unmarshal([]byte(raw), &v) != nil {
			return nil
		}
		return v
	default:
		return raw
	}
}
