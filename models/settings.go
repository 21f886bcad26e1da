package models

// Preferences are the UI toggles shared by every page of one viewer.
type Preferences struct {
	DarkMode         bool `json:"dark_mode"`
	SidebarCollapsed bool `json:"sidebar_collapsed"`
}
