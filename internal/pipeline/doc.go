// Package pipeline runs the stages of one collection run in sequence.
//
// # Architecture
//
// A run crawls a video into an edge table (CrawlStep), writes the table to
// an edge file (ExportStep) and stores it with its run metadata
// (SaveStep). Every step receives the same *model.CrawlReport and fills in
// its part of it.
//
// Design decision: Export runs before save because:
//  1. The stored run records where its edge file was written
//  2. A database failure must not cost the user the edge file
//
// # Failures
//
// With WithContinueOnError the later steps still run after a failed crawl,
// so that the edges collected before the failure are not lost. The error is
// returned once all steps have run. SaveStep stores an interrupted crawl with
// a context detached from cancellation.
//
// # Usage
//
//	p := pipeline.New(pipeline.WithLogger(logger), pipeline.WithContinueOnError(true))
//	p.AddSteps(
//		pipeline.NewCrawlStep(c),
//		pipeline.NewExportStep("csv", "edges.csv"),
//		pipeline.NewSaveStep(db),
//	)
//	err := p.Execute(ctx, model.NewCrawlReport(videoID))
package pipeline
