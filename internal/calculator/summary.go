package calculator

// Summary describes the charted window of a price series.
type Summary struct {
	Latest    float64
	High      float64
	Low       float64
	Average   float64
	ChangePct float64 // latest vs first point; 0 when the first price is 0
	Position  float64 // latest within [Low, High]
}

// Summarize computes window statistics. ok is false for an empty series.
func Summarize(prices []float64) (s Summary, ok bool) {
	high, low, err := CalculateRange(prices)
	if err != nil {
		return Summary{}, false
	}
	avg, _ := CalculateSMA(prices, len(prices))
	latest := prices[len(prices)-1]
	pos, _ := CalculatePosition(latest, high, low)

	s = Summary{Latest: latest, High: high, Low: low, Average: avg, Position: pos}
	if first := prices[0]; first != 0 {
		s.ChangePct = (latest - first) / first * 100
	}
	return s, true
}
