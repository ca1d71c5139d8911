package prometheus

import (
	"time"
)

// Ingest outcome label values.
const (
	OutcomeIngested = "ingested"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// PipelineMetrics holds every metric the parsing pipeline emits. A nil
// *PipelineMetrics is valid; all Record methods become no-ops so callers
// never need to guard.
type PipelineMetrics struct {
	// Acquisition layer
	AcquisitionTotal     CounterVec
	AcquisitionDuration  HistogramVec
	AcquisitionFallbacks CounterVec
	AcquisitionTextBytes HistogramVec

	// Parse layer
	DocumentsParsedTotal CounterVec
	ParseDuration        HistogramVec
	SectionsPerDocument  HistogramVec
	ChaptersPerDocument  HistogramVec
	EntitiesExtracted    CounterVec

	// Validation layer
	ValidationChecksTotal  CounterVec
	ValidationReportsTotal CounterVec
	ValidationContentRatio HistogramVec

	// Ingest layer
	IngestTotal       CounterVec
	IngestDuration    HistogramVec
	IngestRetries     CounterVec
	GraphNodesWritten CounterVec

	// Eventing and artifacts
	EventsPublishedTotal CounterVec
	ArtifactWritesTotal  CounterVec

	// Batch and watcher
	WatcherEventsTotal CounterVec
	ActiveWorkers      GaugeVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets
var (
	DefaultAcquireDurationBuckets = []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120, 300, 600}
	DefaultParseDurationBuckets   = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultIngestDurationBuckets  = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}
	DefaultSizeBuckets            = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	DefaultCountBuckets           = []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000}
	DefaultRatioBuckets           = []float64{0, .25, .5, .75, .9, .95, .99, 1}
)

// NewPipelineMetrics registers every pipeline metric on the collector.
func NewPipelineMetrics(collector MetricsCollector) *PipelineMetrics {
	m := &PipelineMetrics{}

	m.AcquisitionTotal = collector.RegisterCounter("acquisition_total", "Text acquisition attempts", "method", "status")
	m.AcquisitionDuration = collector.RegisterHistogram("acquisition_duration_seconds", "Text acquisition duration", DefaultAcquireDurationBuckets, "method")
	m.AcquisitionFallbacks = collector.RegisterCounter("acquisition_fallbacks_total", "Fallbacks from one extraction method to another", "from", "to")
	m.AcquisitionTextBytes = collector.RegisterHistogram("acquisition_text_bytes", "Bytes of text recovered per document", DefaultSizeBuckets, "method")

	m.DocumentsParsedTotal = collector.RegisterCounter("documents_parsed_total", "Documents run through the parser", "status")
	m.ParseDuration = collector.RegisterHistogram("parse_duration_seconds", "Full parse duration per document", DefaultParseDurationBuckets)
	m.SectionsPerDocument = collector.RegisterHistogram("sections_per_document", "Sections recovered per document", DefaultCountBuckets)
	m.ChaptersPerDocument = collector.RegisterHistogram("chapters_per_document", "Chapters recovered per document", DefaultCountBuckets)
	m.EntitiesExtracted = collector.RegisterCounter("entities_extracted_total", "Entities recovered across documents", "entity_type")

	m.ValidationChecksTotal = collector.RegisterCounter("validation_checks_total", "Individual validation check outcomes", "check", "result")
	m.ValidationReportsTotal = collector.RegisterCounter("validation_reports_total", "Whole-document validation outcomes", "result")
	m.ValidationContentRatio = collector.RegisterHistogram("validation_content_ratio", "Preserved content ratio per document", DefaultRatioBuckets)

	m.IngestTotal = collector.RegisterCounter("ingest_total", "Graph ingestion outcomes", "outcome")
	m.IngestDuration = collector.RegisterHistogram("ingest_duration_seconds", "Graph ingestion duration per document", DefaultIngestDurationBuckets)
	m.IngestRetries = collector.RegisterCounter("ingest_retries_total", "Ingestion retry attempts", "stage")
	m.GraphNodesWritten = collector.RegisterCounter("graph_nodes_written_total", "Graph nodes written", "node_type")

	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Domain events published", "event_type", "status")
	m.ArtifactWritesTotal = collector.RegisterCounter("artifact_writes_total", "Object-store artifact writes", "bucket", "status")

	m.WatcherEventsTotal = collector.RegisterCounter("watcher_events_total", "Drop-directory events accepted", "op")
	m.ActiveWorkers = collector.RegisterGauge("batch_active_workers", "Workers currently parsing documents")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

// RecordAcquisition notes one acquisition attempt by method.
func (m *PipelineMetrics) RecordAcquisition(method string, ok bool, textLen int, d time.Duration) {
	if m == nil {
		return
	}
	m.AcquisitionTotal.WithLabelValues(method, statusLabel(ok)).Inc()
	m.AcquisitionDuration.WithLabelValues(method).Observe(d.Seconds())
	if ok {
		m.AcquisitionTextBytes.WithLabelValues(method).Observe(float64(textLen))
	}
}

// RecordFallback notes a switch between extraction methods, such as
// pdftotext yielding too little and OCR taking over.
func (m *PipelineMetrics) RecordFallback(from, to string) {
	if m == nil {
		return
	}
	m.AcquisitionFallbacks.WithLabelValues(from, to).Inc()
}

// RecordParse notes one parse run and its structural yield.
func (m *PipelineMetrics) RecordParse(ok bool, d time.Duration, chapters, sections int) {
	if m == nil {
		return
	}
	m.DocumentsParsedTotal.WithLabelValues(statusLabel(ok)).Inc()
	m.ParseDuration.WithLabelValues().Observe(d.Seconds())
	if ok {
		m.ChaptersPerDocument.WithLabelValues().Observe(float64(chapters))
		m.SectionsPerDocument.WithLabelValues().Observe(float64(sections))
	}
}

// RecordEntities adds per-type entity counts for one document.
func (m *PipelineMetrics) RecordEntities(authorities, penalties, definitions, crossRefs int) {
	if m == nil {
		return
	}
	m.EntitiesExtracted.WithLabelValues("authority").Add(float64(authorities))
	m.EntitiesExtracted.WithLabelValues("penalty").Add(float64(penalties))
	m.EntitiesExtracted.WithLabelValues("definition").Add(float64(definitions))
	m.EntitiesExtracted.WithLabelValues("cross_reference").Add(float64(crossRefs))
}

// RecordValidationCheck notes one named check's pass/fail.
func (m *PipelineMetrics) RecordValidationCheck(check string, passed bool) {
	if m == nil {
		return
	}
	result := "pass"
	if !passed {
		result = "fail"
	}
	m.ValidationChecksTotal.WithLabelValues(check, result).Inc()
}

// RecordValidationReport notes a whole-document validation outcome.
func (m *PipelineMetrics) RecordValidationReport(passed bool, contentRatio float64) {
	if m == nil {
		return
	}
	result := "pass"
	if !passed {
		result = "fail"
	}
	m.ValidationReportsTotal.WithLabelValues(result).Inc()
	m.ValidationContentRatio.WithLabelValues().Observe(contentRatio)
}

// RecordIngest notes one document's ingestion outcome.
func (m *PipelineMetrics) RecordIngest(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.IngestTotal.WithLabelValues(outcome).Inc()
	m.IngestDuration.WithLabelValues().Observe(d.Seconds())
}

// RecordRetry notes one retry at the named pipeline stage.
func (m *PipelineMetrics) RecordRetry(stage string) {
	if m == nil {
		return
	}
	m.IngestRetries.WithLabelValues(stage).Inc()
}

// RecordGraphWrite adds node counts written by one save.
func (m *PipelineMetrics) RecordGraphWrite(chapters, sections int) {
	if m == nil {
		return
	}
	m.GraphNodesWritten.WithLabelValues("chapter").Add(float64(chapters))
	m.GraphNodesWritten.WithLabelValues("section").Add(float64(sections))
}

// RecordEventPublished notes one event publish attempt.
func (m *PipelineMetrics) RecordEventPublished(eventType string, ok bool) {
	if m == nil {
		return
	}
	m.EventsPublishedTotal.WithLabelValues(eventType, statusLabel(ok)).Inc()
}

// RecordArtifactWrite notes one object-store write.
func (m *PipelineMetrics) RecordArtifactWrite(bucket string, ok bool) {
	if m == nil {
		return
	}
	m.ArtifactWritesTotal.WithLabelValues(bucket, statusLabel(ok)).Inc()
}

// RecordWatcherEvent notes one accepted drop-directory event.
func (m *PipelineMetrics) RecordWatcherEvent(op string) {
	if m == nil {
		return
	}
	m.WatcherEventsTotal.WithLabelValues(op).Inc()
}

// SetActiveWorkers publishes the current batch worker count.
func (m *PipelineMetrics) SetActiveWorkers(n int) {
	if m == nil {
		return
	}
	m.ActiveWorkers.WithLabelValues().Set(float64(n))
}

// SetHealth publishes a component health flag.
func (m *PipelineMetrics) SetHealth(component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// RecordError counts an error by component and type.
func (m *PipelineMetrics) RecordError(component, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
