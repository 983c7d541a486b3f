package entity

import "time"

// Quote is one live observation for an instrument within a poll pass.
type Quote struct {
	Code       string    `json:"code"`
	Price      *float64  `json:"price"`
	Success    bool      `json:"success"`
	ObservedAt time.Time `json:"observed_at"`
}

// Usable reports whether the quote may be handed to the classifier.
func (q Quote) Usable() bool {
	return q.Success && q.Price != nil
}
