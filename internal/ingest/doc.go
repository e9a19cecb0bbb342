// Package ingest reads housing sale files into memory and projects each
// row into an (x, y) Point for a downstream model.
//
// # Data Flow
//
//	file (.csv or .xlsx) → Stream → Records → Dataset → Points → PointConsumer
//
// Open returns a Stream, a single-pass lazy sequence of Records:
//
//	s, err := ingest.Open("kc_house_data.csv", ingest.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	for rec, err := range s.Records(ctx) {
//	    ...
//	}
//
// Ingestor.Ingest reads a whole file and returns the Dataset only after the
// stream has ended, so projection never sees a partial Dataset:
//
//	in := ingest.NewIngestor(ingest.DefaultOptions(), logger, metrics)
//	ds, err := in.Ingest(ctx, "kc_house_data.csv")
//	points := in.Project(ctx, ds)
//
// # Missing and Non-numeric Fields
//
// Points keep the raw text of their fields. A field absent from a row gives
// the zero Value (Present == false). Value.Float64 converts on demand.
//
// # Errors
//
// An unreadable path yields an AppError of type FILESYSTEM wrapping the
// *fs.PathError. A CSV syntax error, or in Strict mode a row whose width
// differs from the header, yields a PARSING error and fails the run.
package ingest
