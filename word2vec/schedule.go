package word2vec

// A Schedule linearly decays the learning rate as training
// progresses.
type Schedule struct {
	// Start is the initial learning rate.
	Start float64

	// MinFraction bounds the rate from below at
	// Start*MinFraction.
	//
	// If 0, DefaultMinRateFraction is used.
	MinFraction float64

	// Total is the number of words that will be processed
	// over the whole session.
	Total int64
}

// Rate returns the learning rate after done words have
// been processed.
func (s Schedule) Rate(done int64) float32 {
	minFrac := s.MinFraction
	if minFrac == 0 {
		minFrac = DefaultMinRateFraction
	}
	rate := s.Start * (1 - float64(done)/float64(s.Total+1))
	if min := s.Start * minFrac; rate < min {
		rate = min
	}
	return float32(rate)
}
