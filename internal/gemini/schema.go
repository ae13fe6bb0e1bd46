package gemini

// Schema type names accepted by the Gemini API.
const (
	TypeArray   = "ARRAY"
	TypeObject  = "OBJECT"
	TypeString  = "STRING"
	TypeInteger = "INTEGER"
	TypeNumber  = "NUMBER"
	TypeBoolean = "BOOLEAN"
)

// Schema describes the shape structured generation must emit. It is a
// subset of OpenAPI schema, marshaled verbatim into generationConfig.
// Every field listed in Required is mandatory for an element to be
// considered well-formed.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}
