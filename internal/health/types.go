package health

// Status is the coarse health classification of a context.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// String returns the status name.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusHealthy, StatusWarning, StatusDegraded, StatusCritical:
		return true
	}
	return false
}

// Risk grades a lost-in-middle warning.
type Risk string

const (
	RiskHigh   Risk = "high"
	RiskMedium Risk = "medium"
)

// AttentionWarning flags a critical keyword found in the middle band.
type AttentionWarning struct {
	Position    int    `json:"position"`
	PositionPct string `json:"position_pct"`
	Keyword     string `json:"keyword"`
	Risk        Risk   `json:"risk"`
}

// Poisoning finding kinds.
const (
	FindingError         = "error"
	FindingContradiction = "self-contradiction"
)

// PoisoningFinding is one error-pattern hit or contradiction.
type PoisoningFinding struct {
	Position int    `json:"position"`
	Kind     string `json:"kind"`
	Pattern  string `json:"pattern"`
}

// PoisoningReport summarizes poisoning indicators across a conversation.
type PoisoningReport struct {
	ErrorDensity       float64            `json:"error_density"`
	ErrorCount         int                `json:"error_count"`
	ContradictionCount int                `json:"contradiction_count"`
	Risk               float64            `json:"poisoning_risk"`
	Findings           []PoisoningFinding `json:"findings,omitempty"`
}

// Analysis is the result of a full context health analysis.
type Analysis struct {
	TotalTokens     int
	TokenLimit      int
	Utilization     float64
	HealthScore     float64
	Status          Status
	DegradationRisk float64
	PoisoningRisk   float64
	Recommendations []string
	MiddleWarnings  []AttentionWarning
	Poisoning       PoisoningReport
}

// DefaultTokenLimit is the context window assumed when none is given.
const DefaultTokenLimit = 128000

// DefaultKeywords returns the critical keywords used when none are given.
func DefaultKeywords() []string {
	return []string{"goal", "task", "important", "critical", "must"}
}

// Options configures an analysis.
type Options struct {
	TokenLimit       int
	CriticalKeywords []string
}

// DefaultOptions returns a 128000-token limit and the default keywords.
func DefaultOptions() Options {
	return Options{
		TokenLimit:       DefaultTokenLimit,
		CriticalKeywords: DefaultKeywords(),
	}
}

// keywords returns the configured keywords, or the defaults when empty.
func (o Options) keywords() []string {
	if len(o.CriticalKeywords) == 0 {
		return DefaultKeywords()
	}
	return o.CriticalKeywords
}
