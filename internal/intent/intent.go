package intent

// Visualization selects how a result set is rendered.
type Visualization string

const (
	VisualizationLine  Visualization = "line"
	VisualizationBar   Visualization = "bar"
	VisualizationPie   Visualization = "pie"
	VisualizationTable Visualization = "table"
	VisualizationText  Visualization = "text"
)

func (v Visualization) Valid() bool {
	switch v {
	case VisualizationLine, VisualizationBar, VisualizationPie, VisualizationTable, VisualizationText:
		return true
	default:
		return false
	}
}

// Intent is the classifier's structured decision for one utterance. By the
// time it leaves the classifier, SQLQuery is never empty, Visualization is a
// valid enum value, and ResponseGuidance is populated.
type Intent struct {
	Kind             string        `json:"intent"`
	SQLQuery         string        `json:"sql_query"`
	Visualization    Visualization `json:"visualization"`
	ResponseGuidance string        `json:"response_guidance"`
	ResponseType     string        `json:"response_type"`
	TimePeriod       string        `json:"time_period,omitempty"`

	// Fallback records that the oracle was unavailable or unusable and the
	// deterministic tier synthesized the decision. Note carries the
	// diagnostic for the degraded-confidence hint in the payload.
	Fallback bool   `json:"-"`
	Note     string `json:"-"`
}

func responseTypeFor(vis Visualization) string {
	switch vis {
	case VisualizationTable:
		return "table"
	case VisualizationText:
		return "text"
	default:
		return "chart"
	}
}
