package model

import "time"

// AdminAction is one entry of the local audit trail of dashboard mutations.
type AdminAction struct {
	ID        int64
	Kind      ActionKind
	Target    string
	Succeeded bool
	Detail    string
	CreatedAt time.Time
}
