package eventlog

// Level classifies an event-log entry. The zero value is LevelUnknown, used
// for raw tokens that are not part of the audit vocabulary; callers that need
// a display label for an unknown token must carry the raw string alongside
// (see DisplayLabel).
type Level int8

const (
	// LevelUnknown marks a raw level token outside the audit vocabulary.
	LevelUnknown Level = iota
	// LevelInfo marks successful lifecycle events.
	LevelInfo
	// LevelWarning marks non-critical anomalies, including cancellations.
	LevelWarning
	// LevelError marks rejected transitions and reported incidents.
	LevelError
	// LevelCritical marks severe incidents.
	LevelCritical
	// LevelCancelled is the dedicated cancellation level used by one audit
	// variant; it is part of the unified level set so that ingested logs from
	// that variant classify correctly.
	LevelCancelled
)

// levelTokens maps each known level to the token written on the wire.
var levelTokens = map[Level]string{
	LevelInfo:      "INFO",
	LevelWarning:   "WARNING",
	LevelError:     "ERROR",
	LevelCritical:  "CRITICAL",
	LevelCancelled: "CANCELADO",
}

// levelLabels maps each known level to its human-friendly display label.
// The four audit levels get Portuguese labels; LevelCancelled keeps its raw
// token, matching the ingestion normalization rules.
var levelLabels = map[Level]string{
	LevelInfo:      "Informação",
	LevelWarning:   "Aviso",
	LevelError:     "Erro",
	LevelCritical:  "Crítico",
	LevelCancelled: "CANCELADO",
}

// Token returns the wire token for the level (e.g., "INFO").
// LevelUnknown has no token and returns the empty string.
func (l Level) Token() string {
	return levelTokens[l]
}

// Label returns the human-friendly display label for the level.
// LevelUnknown has no label of its own; use DisplayLabel when a raw token is
// available.
func (l Level) Label() string {
	return levelLabels[l]
}

// String returns the wire token, or "UNKNOWN" for LevelUnknown.
func (l Level) String() string {
	if l == LevelUnknown {
		return "UNKNOWN"
	}
	return l.Token()
}

// ParseLevel maps a raw wire token to its Level. Tokens outside the audit
// vocabulary map to LevelUnknown; the caller keeps the raw string.
func ParseLevel(token string) Level {
	switch token {
	case "INFO":
		return LevelInfo
	case "WARNING":
		return LevelWarning
	case "ERROR":
		return LevelError
	case "CRITICAL":
		return LevelCritical
	case "CANCELADO":
		return LevelCancelled
	}
	return LevelUnknown
}

// DisplayLabel is the total label function over the level set: known levels
// map to their display label, unknown levels keep the raw token verbatim.
func DisplayLabel(l Level, raw string) string {
	if l == LevelUnknown {
		return raw
	}
	return l.Label()
}
