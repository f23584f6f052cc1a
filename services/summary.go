package services

import (
	"fmt"

	"bungalows-map/utils"
)

// RunSummary aggregates the per-run pipeline counters printed at exit.
type RunSummary struct {
	PerSource          map[string]int
	Scraped            int
	Unique             int
	Filtered           int
	Enriched           int
	DroppedNoGeo       int
	DroppedOutOfRadius int
	New                int
}

// NewRunSummary creates an empty summary.
func NewRunSummary() *RunSummary {
	return &RunSummary{PerSource: make(map[string]int)}
}

// Count records one resolver outcome.
func (s *RunSummary) Count(outcome Outcome) {
	switch outcome {
	case Enriched:
		s.Enriched++
	case DroppedNoGeo:
		s.DroppedNoGeo++
	case DroppedOutOfRadius:
		s.DroppedOutOfRadius++
	}
}

// SummaryService prints the end-of-run report.
type SummaryService struct {
	logger *utils.Logger
}

// NewSummaryService creates a SummaryService with the given logger.
func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// Print logs the counters and the output file locations.
func (s *SummaryService) Print(sum *RunSummary, radiusKm float64, snapshotPath, newPath, mapPath string) {
	s.logger.Info("[summary] scraped %d listings (%d unique, %d after detail filter)",
		sum.Scraped, sum.Unique, sum.Filtered)
	s.logger.Info("[summary] within %.0f km: %d | no geo: %d | out of radius: %d",
		radiusKm, sum.Enriched, sum.DroppedNoGeo, sum.DroppedOutOfRadius)
	s.logger.Info("[summary] new since previous run: %d", sum.New)

	fmt.Printf("\nSnapshot (<= %.0f km): %d\n", radiusKm, sum.Enriched)
	fmt.Printf("Nieuw sinds vorige run: %d\n", sum.New)
	fmt.Printf("- Snapshot: %s\n", snapshotPath)
	fmt.Printf("- New:      %s\n", newPath)
	fmt.Printf("- Kaart:    %s\n", mapPath)
}
