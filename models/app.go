package models

// AppOption is an entry of the tool menu.
type AppOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	ComingSoon  bool   `json:"coming_soon,omitempty"`
	Path        string `json:"path,omitempty"`
}
