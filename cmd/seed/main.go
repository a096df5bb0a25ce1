package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"plancheck/internal/catalog"
	"plancheck/internal/classify"
	"plancheck/internal/engine"
	"plancheck/internal/model"
	"plancheck/internal/repository"
	"plancheck/internal/rules"
	"plancheck/internal/service"
)

// Seeds a demo validation run over a small sample plan so the API has
// something to show before the first real submission. Uses the mock
// extractor; no API key required.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("plancheckdb")
	runRepo := repository.NewRunRepo(db)

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load requirement catalog: %v", err)
	}
	registry := rules.NewRegistry()
	if err := registry.ValidateAgainst(cat); err != nil {
		log.Fatalf("Rule mapping inconsistent with catalog: %v", err)
	}

	classifier := classify.NewClassifier(registry)
	orchestrator := engine.NewOrchestrator(service.NewEvidenceService(), classifier, registry, nil)
	aggregator := engine.NewAggregator(cat, registry)

	segments := []model.SegmentInput{
		{
			SegmentID: "seg-wall-north",
			Label:     "North exterior wall section",
			Notes:     "wall section, exterior wall. wall thickness: 30 cm [wall, insulation]",
		},
		{
			SegmentID: "seg-living-room",
			Label:     "Living room cross section",
			Notes:     "section view of living room. room height: 2.60 m ceiling height [slab]",
		},
		{
			SegmentID: "seg-entry-door",
			Label:     "Entry door detail",
			Notes:     "door detail, escape route. door width: 95 cm clear width [door, lintel, opening]",
		},
		{
			SegmentID: "seg-bedroom-window",
			Label:     "Bedroom window detail",
			Notes:     "window detail. window area: 2.1 m2, floor area: 15 m2 [window]",
		},
	}

	runID := "demo-run"
	results, err := orchestrator.Run(ctx, runID, segments, nil)
	if err != nil {
		log.Fatalf("Demo run failed: %v", err)
	}
	report := aggregator.Aggregate(results)

	now := time.Now()
	run := &model.ValidationRun{
		ID:               runID,
		Status:           model.RunStatusCompleted,
		Mode:             "sync",
		TotalSegments:    len(segments),
		AnalyzedSegments: results,
		Coverage:         report,
		CreatedAt:        now,
		CompletedAt:      &now,
	}

	if err := runRepo.Save(ctx, run); err != nil {
		log.Fatalf("Failed to store demo run: %v", err)
	}

	fmt.Printf("Seeded run '%s': %d/%d requirements checked, %d failed\n",
		runID, report.Statistics.Checked, report.Statistics.Total, report.Statistics.Failed)
}
