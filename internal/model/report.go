package model

import (
	"time"

	"github.com/gojiplus/lostyears/internal/lifetable"
)

// Report describes one completed join run: what was matched against which
// source, and which rows could not be resolved. Written as JSON when the
// caller asks for a report file.
type Report struct {
	Source      string    `json:"source"`      // ssa, hld or who
	Input       string    `json:"input"`       // input file path
	Output      string    `json:"output"`      // output file path
	GeneratedAt time.Time `json:"generated_at"`

	Stats lifetable.Stats `json:"stats"`

	// Policy is the unmatched-row policy that was in effect.
	Policy string `json:"unmatched_policy"`
}
