package db

import (
	"time"

	"github.com/jakechorley/random-duties/pkg/core/duties"
)

// Record origins
const (
	OriginGenerated = "generated"
	OriginManual    = "manual"
)

// HistoryRecord is the persisted outcome of one week's run.
// The embedded duties.Record carries the rolling history read by the next run;
// its JSON keys are kept at the top level for compatibility with older week files.
type HistoryRecord struct {
	ID   string `json:"ID,omitempty"`
	Week string `json:"Week,omitempty"`

	duties.Record

	// Assignment is the roster the record was built from, in calendar order
	Assignment duties.Assignment `json:"Assignment,omitempty"`

	// Origin is OriginGenerated or OriginManual
	Origin string `json:"Origin,omitempty"`

	// Seed reproduces a generated roster
	Seed int64 `json:"Seed"`

	CreatedAt time.Time `json:"CreatedAt"`
}
