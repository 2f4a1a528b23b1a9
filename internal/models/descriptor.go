package models

// ProviderOpenRouter is the only provider family served by the gateway.
const ProviderOpenRouter = "openrouter"

// Descriptor is the metadata record for one invokable model.
// Only ID and ProviderID carry meaning for the gateway; the rest is passed
// through to clients untouched.
type Descriptor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Provider       string `json:"provider"`
	ProviderID     string `json:"providerId"`
	BaseProviderID string `json:"baseProviderId,omitempty"`
	Description    string `json:"description,omitempty"`

	ContextWindow int    `json:"contextWindow,omitempty"`
	Vision        bool   `json:"vision,omitempty"`
	Tools         bool   `json:"tools,omitempty"`
	Reasoning     bool   `json:"reasoning,omitempty"`
	OpenSource    bool   `json:"openSource,omitempty"`
	Speed         string `json:"speed,omitempty"`
	Intelligence  string `json:"intelligence,omitempty"`

	Website   string `json:"website,omitempty"`
	APIDocs   string `json:"apiDocs,omitempty"`
	ModelPage string `json:"modelPage,omitempty"`
	Icon      string `json:"icon,omitempty"`
}
