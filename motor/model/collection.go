package model

// Collection groups saved operations under a name.
type Collection struct {
	ID      string           `json:"id" yaml:"id"`
	Name    string           `json:"name" yaml:"name"`
	Queries []CollectionItem `json:"queries" yaml:"queries"`
}

// CollectionItem is a saved operation together with its variables and headers text.
type CollectionItem struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Query     string `json:"query" yaml:"query"`
	Variables string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Headers   string `json:"headers,omitempty" yaml:"headers,omitempty"`
}
