package compliance

// APORSource supplies the Average Prime Offer Rate for a loan term. The
// real value comes from the weekly FFIEC table.
type APORSource interface {
	AveragePrimeOfferRate(termMonths int) float64
}

// ConservativeAPOR is a deliberately low estimate so the HPML advisory errs
// toward flagging loans.
const ConservativeAPOR = 0.0625

type StaticAPOR struct {
	Rate float64
}

func (s StaticAPOR) AveragePrimeOfferRate(int) float64 { return s.Rate }

func DefaultAPOR() APORSource { return StaticAPOR{Rate: ConservativeAPOR} }
