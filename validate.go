package t2m

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Affected property
}

// Validate checks parsed material properties and returns issues.
// Parsing itself is best-effort; callers that need strict values decide what to do with these.
func Validate(p MaterialProperties, opt *ValidateOptions) []Issue {
	vopt := opt.normalize()
	var out []Issue

	out = append(out, validateUnit("metallic", p.Metallic)...)
	out = append(out, validateUnit("smoothness", p.Smoothness)...)
	out = append(out, validateColor("albedo", p.Albedo, false)...)
	out = append(out, validateColor("emission", p.Emission, vopt.AllowHDREmission)...)

	if !vopt.DisableTilingCheck {
		// Zero scale collapses the texture to a single texel.
		if p.Tiling.X == 0 || p.Tiling.Y == 0 {
			out = append(out, Issue{Level: IssueWarning, Code: "zero_tiling", Message: "tiling has a zero axis", Path: "tiling"})
		}
	}

	return out
}

// validateUnit validates a factor expected in [0,1].
func validateUnit(name string, v float64) []Issue {
	if v < 0 || v > 1 {
		return []Issue{{Level: IssueWarning, Code: "out_of_range", Message: "value outside [0,1]", Path: name}}
	}

	return nil
}

// validateColor validates color components.
func validateColor(name string, c Color, allowHDR bool) []Issue {
	for _, v := range c.ToArray() {
		if v < 0 {
			return []Issue{{Level: IssueWarning, Code: "out_of_range", Message: "negative color component", Path: name}}
		}
		if v > 1 && !allowHDR {
			return []Issue{{Level: IssueWarning, Code: "out_of_range", Message: "color component above 1", Path: name}}
		}
	}

	return nil
}
