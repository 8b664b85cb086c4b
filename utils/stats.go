package utils

import "time"

const (
	populationHistorySize = 200
	// populationSmoothing is the weight of the newest sample in AveragePopulation
	populationSmoothing = 0.1
)

// Stats tracks throughput and population of a headless run
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	PeakPopulation       int
	TotalGenerations     int
	StartTime            time.Time
	Population           []float64 // most recent populations, oldest first
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update records one generation. frame is the time spent on it; zero leaves
// the rate unchanged.
func (s *Stats) Update(generation, population int, frame time.Duration) {
	s.TotalGenerations = generation
	if frame > 0 {
		s.GenerationsPerSecond = 1 / frame.Seconds()
	}

	pop := float64(population)
	if len(s.Population) == 0 {
		s.AveragePopulation = pop
	} else {
		s.AveragePopulation += populationSmoothing * (pop - s.AveragePopulation)
	}
	s.PeakPopulation = max(s.PeakPopulation, population)

	s.Population = append(s.Population, pop)
	if over := len(s.Population) - populationHistorySize; over > 0 {
		s.Population = s.Population[over:]
	}
}

// Runtime is the wall time since the stats were created
func (s *Stats) Runtime() time.Duration {
	return time.Since(s.StartTime)
}
