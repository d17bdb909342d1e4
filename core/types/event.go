package types

// Event is a structured notification emitted after a successful state change.
// Attributes are string key/value pairs so off-chain indexers can reconstruct
// history without re-querying module state.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Attribute returns the named attribute or the empty string when absent.
func (e *Event) Attribute(key string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}
