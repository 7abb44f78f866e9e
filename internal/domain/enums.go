package domain

// SessionType classifies a teaching session for ordinal numbering.
type SessionType string

const (
	SessionCM SessionType = "CM"
	SessionTD SessionType = "TD"
	SessionTP SessionType = "TP"
)

// SessionOrdinal labels one occurrence within a recurring session series,
// e.g. {CM, 3} renders as "CM3". Computed, never persisted.
type SessionOrdinal struct {
	Type    SessionType
	Ordinal int
}
