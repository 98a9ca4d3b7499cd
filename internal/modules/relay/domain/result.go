package domain

import "time"

// Result is the outcome of one relay operation. Err is set for skipped and
// failed outcomes and is already classified.
type Result struct {
	Outcome          Outcome
	SourceMessageIDs []int
	TargetMessageIDs []int
	Err              error
}

// OK reports whether something was published in the target channel.
func (r Result) OK() bool {
	return r.Outcome == OutcomeCopied || r.Outcome == OutcomeForwarded || r.Outcome == OutcomeGrouped
}

// Activity is a journal entry describing one relay attempt
type Activity struct {
	ID               string    `json:"id"`
	At               time.Time `json:"at"`
	Operation        Operation `json:"operation"`
	Outcome          Outcome   `json:"outcome"`
	SourceChannelID  int64     `json:"source_channel_id"`
	TargetChannelID  int64     `json:"target_channel_id"`
	SourceMessageIDs []int     `json:"source_message_ids"`
	TargetMessageIDs []int     `json:"target_message_ids,omitempty"`
	MediaGroupID     string    `json:"media_group_id,omitempty"`
	Error            string    `json:"error,omitempty"`
}
