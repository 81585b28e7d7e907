package model

// Environment is a named GraphQL endpoint with optional credentials.
type Environment struct {
	// Name shown in the environment picker.
	Name string `json:"name" yaml:"name"`

	// URL of the GraphQL endpoint.
	URL string `json:"url" yaml:"url"`

	// Token is sent as a bearer token when set.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Color tags the environment in the UI, an ANSI index or hex value.
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}
