package model

// Notifications toggles which channels the user wants.
type Notifications struct {
	Email   bool `json:"email"`
	Push    bool `json:"push"`
	Desktop bool `json:"desktop"`
	Weekly  bool `json:"weekly"`
}

// Settings are client-local preferences, never sent to the server.
type Settings struct {
	Notifications Notifications `json:"notifications"`
	Theme         string        `json:"theme"`
	Language      string        `json:"language"`
	Timezone      string        `json:"timezone"`
}

// DefaultSettings matches a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Notifications: Notifications{
			Email:   true,
			Push:    false,
			Desktop: true,
			Weekly:  true,
		},
		Theme:    "light",
		Language: "en",
		Timezone: "UTC",
	}
}
