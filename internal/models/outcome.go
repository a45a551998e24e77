package models

// Kind classifies the result of one request attempt.
type Kind string

const (
	KindSuccess Kind = "success"
	KindBuild   Kind = "build"
	KindTimeout Kind = "timeout"
	KindConnect Kind = "connect"
	KindAuth    Kind = "auth"
	KindOther   Kind = "other"
)

// Outcome is the tagged result of a single HTTP attempt. Exactly one of the
// success fields (Status/Body/Origin) or Detail is meaningful depending on
// Kind.
type Outcome struct {
	Scenario  string `json:"scenario,omitempty"`
	Kind      Kind   `json:"kind"`
	Status    int    `json:"status,omitempty"`
	Origin    string `json:"origin,omitempty"`
	Body      string `json:"body,omitempty"`
	Detail    string `json:"detail,omitempty"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
}

func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// Failed builds a failure outcome of the given kind.
func Failed(kind Kind, detail string) Outcome {
	return Outcome{Kind: kind, Detail: detail}
}
