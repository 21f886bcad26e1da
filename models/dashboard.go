// models/dashboard.go
package models

// Page is what every signed-in page shares: title, sidebar and the viewer's toggles.
type Page struct {
	Title       string
	DisplayName string
	Nav         []NavItem
	Prefs       Preferences
}

// TimeRange is one of the range buttons under the index chart.
type TimeRange struct {
	Key    string `json:"key"`
	Active bool   `json:"active"`
}
