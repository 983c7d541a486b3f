package entity

import "time"

// InstrumentBaseline holds the historical reference statistics for one instrument.
type InstrumentBaseline struct {
	Code      string    `gorm:"primaryKey;size:16" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	Low200    float64   `gorm:"column:low_200;not null" json:"low_200"`
	High200   float64   `gorm:"column:high_200;not null" json:"high_200"`
	Ma5Ref    float64   `gorm:"column:ma5_ref;not null" json:"ma5_ref"`
	Ma20Ref   float64   `gorm:"column:ma20_ref;not null" json:"ma20_ref"`
	Sessions  int       `gorm:"not null" json:"sessions"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (InstrumentBaseline) TableName() string {
	return "instrument_baselines"
}

// Degenerate reports whether the window is flat, in which case range ratios are undefined.
func (b InstrumentBaseline) Degenerate() bool {
	return b.High200 <= b.Low200
}

// Instrument is a listed security eligible for the baseline universe.
type Instrument struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
