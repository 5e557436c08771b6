package t2m

// valueKind represents the grammar of a property value.
type valueKind int

const (
	// valueColor indicates a color in the configured ColorGrammar.
	valueColor valueKind = iota
	// valueScalar indicates a single float token.
	valueScalar
	// valueVector2 indicates two float tokens.
	valueVector2
)

// propertyKey identifies a recognized reply key.
type propertyKey int

const (
	keyAlbedo propertyKey = iota
	keyMetallic
	keySmoothness
	keyEmission
	keyTiling
	keyOffset
)

// property describes a recognized reply key.
type property struct {
	Name string      // Key as it appears in the reply
	Key  propertyKey // Target field
	Kind valueKind   // Value grammar
}

// knownProperties lists recognized keys in reply order.
var knownProperties = []property{
	{Name: "Albedo", Key: keyAlbedo, Kind: valueColor},
	{Name: "Metallic", Key: keyMetallic, Kind: valueScalar},
	{Name: "Smoothness", Key: keySmoothness, Kind: valueScalar},
	{Name: "Emission", Key: keyEmission, Kind: valueColor},
	{Name: "Tiling", Key: keyTiling, Kind: valueVector2},
	{Name: "Offset", Key: keyOffset, Kind: valueVector2},
}

// segment is a single "key: value" pair of a reply.
type segment struct {
	Key   string // Trimmed key
	Value string // Trimmed value
}
