package candidate

const (
	// UnknownName is rendered when no candidate name could be extracted.
	UnknownName = "Unknown"
	// NotFound is rendered when a contact detail is absent from the document.
	NotFound = "Not found"
)

// Field is an extracted value that remembers whether it was actually found.
// Sentinel text is produced only by Or, so a document that literally
// contains "Unknown" is still distinguishable from a failed extraction.
type Field struct {
	Value string `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// Found returns a found field holding value.
func Found(value string) Field {
	return Field{Value: value, Found: true}
}

// Missing returns an explicitly absent field.
func Missing() Field {
	return Field{}
}

// Or returns the value when found and sentinel otherwise.
func (f Field) Or(sentinel string) string {
	if !f.Found {
		return sentinel
	}
	return f.Value
}
