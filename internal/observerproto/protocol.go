package observerproto

// Version is the observer protocol version.
const Version = "0.1"

// Message type strings.
const (
	TypeSubscribe      = "SUBSCRIBE"
	TypeRunStarted     = "RUN_STARTED"
	TypeLevelStarted   = "LEVEL_STARTED"
	TypeStage          = "STAGE"
	TypeExport         = "EXPORT"
	TypeLevelCompleted = "LEVEL_COMPLETED"
	TypeRunCompleted   = "RUN_COMPLETED"
)

// Client -> Server. First message on the observer WS connection; may be
// re-sent as a keepalive.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// HTTP response for GET /v1/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string   `json:"protocol_version"`
	RunID           string   `json:"run_id"`
	Seed            int64    `json:"seed"`
	Levels          int      `json:"levels"`
	Dimensions      int      `json:"dimensions"`
	Schema          string   `json:"schema"`
	Tables          []string `json:"tables"`
	LevelsDone      int      `json:"levels_done"`
}

// Server -> Client. First event of a run; also replayed to late
// subscribers so they can attach mid-run.
type RunStartedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Seed            int64  `json:"seed"`
	Levels          int    `json:"levels"`
	Dimensions      int    `json:"dimensions"`
	Schema          string `json:"schema"`
}

// Server -> Client. Generation of one level has begun.
type LevelStartedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Level           int    `json:"level"`
}

// Server -> Client. One generation stage of a level finished. Counts
// are cumulative for the level; only the stage's own fields are set.
type StageMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Level           int    `json:"level"`
	Stage           string `json:"stage"`

	Rooms         int `json:"rooms,omitempty"`
	CorridorCells int `json:"corridor_cells,omitempty"`
	Drills        int `json:"drills,omitempty"`
	Shapes        int `json:"shapes,omitempty"`
}

// Server -> Client. One table's dump file was written.
type ExportMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Level           int    `json:"level"`
	Table           string `json:"table"`
	Path            string `json:"path"`
	Rows            int    `json:"rows"`
	Bytes           int64  `json:"bytes"`
}

// Server -> Client. A level finished, including its exports.
type LevelCompletedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Level           int    `json:"level"`
	DurationMS      int64  `json:"duration_ms"`
}

// Server -> Client. Last event of a run.
type RunCompletedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Levels          int    `json:"levels"`
	DurationMS      int64  `json:"duration_ms"`
}
