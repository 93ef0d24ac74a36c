package dto

// GenerateResponse reports the outcome of a generation call; the fresh
// variant is always the newest (and selected) entry of the variant state.
type GenerateResponse struct {
	Level    string       `json:"level"`
	Variants VariantState `json:"variants"`
	Version  int          `json:"version"`
}

// SelectVariantResponse confirms a variant switch.
type SelectVariantResponse struct {
	Level    string       `json:"level"`
	Variants VariantState `json:"variants"`
	Version  int          `json:"version"`
}

// VariantSummary lists one stored variant for the variants endpoint.
type VariantSummary struct {
	Index    int  `json:"index"`
	Selected bool `json:"selected"`
	Placed   int  `json:"placed"`
}
