package models

type NavItem struct {
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}
