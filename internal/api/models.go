package api

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// CategoryResponse is one category of a platform.
type CategoryResponse struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// PlatformResponse describes a platform and its capabilities.
type PlatformResponse struct {
	Key        string             `json:"key"`
	Name       string             `json:"name"`
	HasTarget  bool               `json:"has_target"`
	EnabledTag bool               `json:"enabled_tag"`
	Categories []CategoryResponse `json:"categories"`
}

// ChipResponse is one category or tag label on a card.
type ChipResponse struct {
	Kind  string `json:"kind"` // "value", "all", "unsupported"
	Label string `json:"label"`
}

// CardResponse is one subscription as displayed on the config page.
type CardResponse struct {
	Title      string         `json:"title"`
	Platform   string         `json:"platform"`
	Target     string         `json:"target"`
	TargetName string         `json:"target_name"`
	Categories []ChipResponse `json:"categories"`
	Tags       []ChipResponse `json:"tags"`
	Unknown    bool           `json:"unknown_platform,omitempty"`
}

// GroupResponse is one subscription group.
type GroupResponse struct {
	Key   string         `json:"key"`
	Name  string         `json:"name"`
	Title string         `json:"title"`
	Cards []CardResponse `json:"cards"`
}

// SubscriptionsResponse is the config page view model.
type SubscriptionsResponse struct {
	Groups []GroupResponse `json:"groups"`
}
