package view

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/storage"
)

// SettingKeys lists the names Set accepts.
var SettingKeys = []string{
	"notifications.email",
	"notifications.push",
	"notifications.desktop",
	"notifications.weekly",
	"theme",
	"language",
	"timezone",
}

// SettingsPage keeps preferences in local storage. They never reach the
// server.
type SettingsPage struct {
	kv     storage.KV
	notify Notifier
}

func NewSettingsPage(kv storage.KV, n Notifier) *SettingsPage {
	return &SettingsPage{kv: kv, notify: n}
}

// Load returns the saved settings, or the defaults when none are saved or
// the saved value is unreadable.
func (p *SettingsPage) Load(ctx context.Context) (model.Settings, error) {
	raw, ok, err := p.kv.Get(ctx, storage.KeySystemSettings)
	if err != nil {
		return model.DefaultSettings(), err
	}
	if !ok {
		return model.DefaultSettings(), nil
	}
	s := model.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		logger.Warn("Ignoring unreadable settings", logger.F("error", err))
		return model.DefaultSettings(), nil
	}
	return s, nil
}

func (p *SettingsPage) Save(ctx context.Context, s model.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return mutate(p.notify, "save settings", "Settings saved", nil,
		func() error { return p.kv.Set(ctx, storage.KeySystemSettings, string(data)) },
		nil)
}

// Set changes one setting by name and saves.
func (p *SettingsPage) Set(ctx context.Context, key, value string) (model.Settings, error) {
	s, err := p.Load(ctx)
	if err != nil {
		return s, err
	}
	if err := ApplySetting(&s, key, value); err != nil {
		p.notify.Failure(err.Error())
		return s, err
	}
	return s, p.Save(ctx, s)
}

func (p *SettingsPage) Reset(ctx context.Context) (model.Settings, error) {
	s := model.DefaultSettings()
	return s, p.Save(ctx, s)
}

// ApplySetting sets one field of s by its dotted name.
func ApplySetting(s *model.Settings, key, value string) error {
	flag := func(dst *bool) error {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		*dst = v
		return nil
	}

	switch strings.ToLower(key) {
	case "notifications.email":
		return flag(&s.Notifications.Email)
	case "notifications.push":
		return flag(&s.Notifications.Push)
	case "notifications.desktop":
		return flag(&s.Notifications.Desktop)
	case "notifications.weekly":
		return flag(&s.Notifications.Weekly)
	case "theme":
		if value != "light" && value != "dark" && value != "system" {
			return fmt.Errorf("theme must be light, dark or system")
		}
		s.Theme = value
	case "language":
		s.Language = value
	case "timezone":
		s.Timezone = value
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(SettingKeys, ", "))
	}
	return nil
}
