package model

// NameValuePair is a name and value, paired.
type NameValuePair struct {
	// Name of the entry, e.g. a header name.
	Name string `json:"name" yaml:"name"`
	// Value of the entry. May contain {{token}} placeholders.
	Value string `json:"value" yaml:"value"`

	// Comment can be added by the user
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}
