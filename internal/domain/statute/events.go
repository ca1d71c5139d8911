package statute

import (
	"github.com/nyayatech/BareAct-Intelligence/pkg/types/common"
)

// Event type identifiers; the Kafka publisher routes on these.
const (
	EventTypeStatuteParsed       = "statute.parsed"
	EventTypeStatuteIngested     = "statute.ingested"
	EventTypeStatuteIngestFailed = "statute.ingest_failed"
)

// StatuteParsedEvent is recorded when the parsing pipeline finalizes an Act.
type StatuteParsedEvent struct {
	common.BaseEvent
	Name          string `json:"name"`
	Year          int    `json:"year"`
	TotalChapters int    `json:"total_chapters"`
	TotalSections int    `json:"total_sections"`
	ContentHash   string `json:"content_hash"`
	SourceFile    string `json:"source_file"`
}

func NewStatuteParsedEvent(a *Act) *StatuteParsedEvent {
	return &StatuteParsedEvent{
		BaseEvent:     common.NewBaseEvent(EventTypeStatuteParsed, a.DocumentID()),
		Name:          a.Name,
		Year:          a.Year,
		TotalChapters: a.TotalChapters,
		TotalSections: a.TotalSections,
		ContentHash:   a.ContentHash(),
		SourceFile:    a.Metadata.SourceFile,
	}
}

// StatuteIngestedEvent is recorded after the graph repository persists an
// act's node hierarchy.
type StatuteIngestedEvent struct {
	common.BaseEvent
	Name              string `json:"name"`
	Year              int    `json:"year"`
	ChaptersCreated   int    `json:"chapters_created"`
	SectionsCreated   int    `json:"sections_created"`
	ReferencesCreated int    `json:"references_created"`
	ContentHash       string `json:"content_hash"`
}

func NewStatuteIngestedEvent(a *Act, chaptersCreated, sectionsCreated, referencesCreated int) *StatuteIngestedEvent {
	return &StatuteIngestedEvent{
		BaseEvent:         common.NewBaseEvent(EventTypeStatuteIngested, a.DocumentID()),
		Name:              a.Name,
		Year:              a.Year,
		ChaptersCreated:   chaptersCreated,
		SectionsCreated:   sectionsCreated,
		ReferencesCreated: referencesCreated,
		ContentHash:       a.ContentHash(),
	}
}

// StatuteIngestFailedEvent reports a document that could not be acquired,
// parsed, or persisted. Stage names the pipeline step that failed.
type StatuteIngestFailedEvent struct {
	common.BaseEvent
	SourceFile string `json:"source_file"`
	Stage      string `json:"stage"`
	Reason     string `json:"reason"`
}

func NewStatuteIngestFailedEvent(sourceFile, stage, reason string) *StatuteIngestFailedEvent {
	return &StatuteIngestFailedEvent{
		BaseEvent:  common.NewBaseEvent(EventTypeStatuteIngestFailed, sourceFile),
		SourceFile: sourceFile,
		Stage:      stage,
		Reason:     reason,
	}
}
