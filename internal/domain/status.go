package domain

// CardStatus is a display-only maturity label. It is never persisted and
// must be recomputed from Repetitions and Interval.
type CardStatus string

const (
	StatusNew      CardStatus = "new"
	StatusLearning CardStatus = "learning"
	StatusYoung    CardStatus = "young"
	StatusMature   CardStatus = "mature"
)

// A card graduates to mature once its interval reaches matureInterval days.
const (
	youngInterval  = 7
	matureInterval = 21
)

// Status derives the maturity label from the scheduling fields.
func (c Card) Status() CardStatus {
	switch {
	case c.Repetitions == 0:
		return StatusNew
	case c.Interval < youngInterval:
		return StatusLearning
	case c.Interval < matureInterval:
		return StatusYoung
	default:
		return StatusMature
	}
}
