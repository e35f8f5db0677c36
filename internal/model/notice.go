package model

// Level is the severity of a Notice.
type Level string

// Notice levels.
const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Kind classifies what produced a Notice.
type Kind string

// Notice kinds.
const (
	KindTransport Kind = "transport"
	KindSchema    Kind = "schema"
	KindEmpty     Kind = "empty"
	KindAsset     Kind = "asset"
)

// MessageNoData is shown when a range returns no rows.
const MessageNoData = "No data found in the specified range."

// Notice is a user-visible, non-blocking message about a degraded stage.
type Notice struct {
	Level   Level  `json:"level" yaml:"level"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	Message string `json:"message" yaml:"message"`
}
