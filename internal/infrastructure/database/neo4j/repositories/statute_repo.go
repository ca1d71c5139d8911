// Package repositories contains the Neo4j-backed persistence adapters for the
// statute domain. All Cypher for the bare-acts knowledge graph lives here.
package repositories

import (
	"context"
	"fmt"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	driver "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/neo4j"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

// Graph constants shared by every ingestion run. CollectionID groups all
// statute chunks under one retrieval collection owned by the system user.
const (
	CollectionID = "bare-acts-golden-source"
	UserID       = "system"
	ContentType  = "legal"

	collectionName        = "Indian Bare Acts"
	collectionDescription = "Collection of Indian Bare Acts and Statutes"
)

type statuteRepo struct {
	driver driver.Executor
	log    logging.Logger
}

// NewStatuteRepository returns a statute.GraphRepository backed by Neo4j.
func NewStatuteRepository(d driver.Executor, log logging.Logger) statute.GraphRepository {
	return &statuteRepo{
		driver: d,
		log:    log,
	}
}

// EnsureCollection creates or refreshes the shared bare-acts collection and
// its owning system user. Safe to call before every run.
func (r *statuteRepo) EnsureCollection(ctx context.Context) error {
	query := `
		MERGE (u:User {user_id: $user_id})
		MERGE (c:Collection {collection_id: $collection_id})
		SET c.content_type = $content_type,
		    c.is_public = true,
		    c.name = $name,
		    c.description = $description,
		    c.updated_at = datetime(),
		    c.created_at = COALESCE(c.created_at, datetime())
		MERGE (u)-[:OWNS]->(c)
	`
	params := map[string]interface{}{
		"user_id":       UserID,
		"collection_id": CollectionID,
		"content_type":  ContentType,
		"name":          collectionName,
		"description":   collectionDescription,
	}

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (interface{}, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeGraphError, "failed to ensure bare-acts collection")
	}

	r.log.Debug("Collection verified", logging.String("collection_id", CollectionID))
	return nil
}

// SaveStatute replaces any previous hierarchy for the act and writes the
// current one: Statute node, deduplicated Chapter nodes with HAS_CHAPTER
// edges, Section nodes with HAS_SECTION edges, CONTAINS_SECTION edges from
// each chapter to its sections, and REFERS_TO edges between sections whose
// cross-references resolved to a real section number.
func (r *statuteRepo) SaveStatute(ctx context.Context, act *statute.Act) (*statute.GraphSaveStats, error) {
	if act == nil || len(act.Sections) == 0 {
		return nil, errors.New(errors.ErrCodeGraphError, "refusing to save statute without sections")
	}

	documentID := act.DocumentID()
	fileID := act.FileID()

	// Clean first so re-ingestion is idempotent. A failed clean is logged and
	// ingestion continues; MERGE semantics below absorb leftovers.
	if err := r.DeleteStatute(ctx, documentID, fileID); err != nil {
		r.log.Warn("Pre-save clean failed, continuing",
			logging.String("document_id", documentID), logging.Err(err))
	}

	if err := r.createStatuteNode(ctx, act, documentID); err != nil {
		return nil, err
	}

	chapterIDs, err := r.createChapterNodes(ctx, act, documentID)
	if err != nil {
		return nil, err
	}

	sectionsCreated, err := r.createSectionNodes(ctx, act, documentID, chapterIDs)
	if err != nil {
		return nil, err
	}

	referencesCreated, err := r.createReferenceEdges(ctx, act, documentID)
	if err != nil {
		return nil, err
	}

	r.log.Info("Statute persisted to graph",
		logging.String("document_id", documentID),
		logging.Int("chapters", len(chapterIDs)),
		logging.Int("sections", sectionsCreated),
		logging.Int("references", referencesCreated),
	)

	return &statute.GraphSaveStats{
		ChaptersCreated:   len(chapterIDs),
		SectionsCreated:   sectionsCreated,
		ReferencesCreated: referencesCreated,
	}, nil
}

// DeleteStatute removes retrieval chunks grouped under fileID, then the
// statute node together with its chapters and sections.
func (r *statuteRepo) DeleteStatute(ctx context.Context, documentID, fileID string) error {
	chunkQuery := `
		MATCH (c:Chunk {file_id: $file_id})
		DETACH DELETE c
		RETURN count(*) AS deleted
	`
	hierarchyQuery := `
		MATCH (s:Statute {id: $statute_id})
		OPTIONAL MATCH (s)-[:HAS_CHAPTER]->(ch:Chapter)
		OPTIONAL MATCH (s)-[:HAS_SECTION]->(sec:Section)
		WITH s, collect(ch) AS chapters, collect(sec) AS sections
		DETACH DELETE s
		FOREACH (ch IN chapters | DETACH DELETE ch)
		FOREACH (sec IN sections | DETACH DELETE sec)
		RETURN 1 AS done
	`

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (interface{}, error) {
		result, err := tx.Run(ctx, chunkQuery, map[string]interface{}{"file_id": fileID})
		if err != nil {
			return nil, err
		}
		var chunksDeleted int64
		if result.Next(ctx) {
			if v, ok := result.Record().Values[0].(int64); ok {
				chunksDeleted = v
			}
		}

		if _, err := tx.Run(ctx, hierarchyQuery, map[string]interface{}{"statute_id": documentID}); err != nil {
			return nil, err
		}
		return chunksDeleted, nil
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeGraphError,
			fmt.Sprintf("failed to clean statute %s", documentID))
	}

	r.log.Debug("Cleaned existing statute data", logging.String("document_id", documentID))
	return nil
}

func (r *statuteRepo) createStatuteNode(ctx context.Context, act *statute.Act, documentID string) error {
	query := `
		MERGE (s:Statute {id: $statute_id})
		SET s.name = $name,
		    s.year = $year,
		    s.act_number = $act_number,
		    s.document_type = $document_type,
		    s.total_chapters = $total_chapters,
		    s.total_sections = $total_sections,
		    s.preamble = $preamble,
		    s.content_hash = $content_hash,
		    s.source_file = $source_file,
		    s.indexed_at = datetime()
	`
	params := map[string]interface{}{
		"statute_id":     documentID,
		"name":           act.Name,
		"year":           act.Year,
		"act_number":     act.ActNumber,
		"document_type":  statute.DocumentTypeBareAct,
		"total_chapters": act.TotalChapters,
		"total_sections": act.TotalSections,
		"preamble":       statute.Truncate(act.Preamble, statute.MaxPreambleLength),
		"content_hash":   act.ContentHash(),
		"source_file":    act.Metadata.SourceFile,
	}

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (interface{}, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeGraphError, "failed to create statute node")
	}
	return nil
}

// createChapterNodes deduplicates chapters by number, preferring the entry
// that carries section numbers when a number repeats (table-of-contents
// echoes produce empty duplicates), then writes them in one batch.
func (r *statuteRepo) createChapterNodes(ctx context.Context, act *statute.Act, documentID string) (map[string]string, error) {
	chapterIDs := make(map[string]string)
	if len(act.Chapters) == 0 {
		return chapterIDs, nil
	}

	kept := make(map[string]statute.Chapter)
	order := make([]string, 0, len(act.Chapters))
	for _, ch := range act.Chapters {
		if ch.Number == "" {
			continue
		}
		if _, seen := kept[ch.Number]; !seen {
			order = append(order, ch.Number)
			kept[ch.Number] = ch
		} else if len(ch.SectionNumbers) > 0 {
			kept[ch.Number] = ch
		}
	}

	batch := make([]map[string]interface{}, 0, len(kept))
	for _, num := range order {
		ch := kept[num]
		chapterID := fmt.Sprintf("%s_chapter_%s", documentID, ch.Number)
		chapterIDs[ch.Number] = chapterID
		batch = append(batch, map[string]interface{}{
			"chapter_id": chapterID,
			"number":     ch.Number,
			"title":      ch.Title,
		})
	}

	query := `
		MATCH (s:Statute {id: $statute_id})
		UNWIND $batch AS row
		MERGE (c:Chapter {id: row.chapter_id})
		SET c.number = row.number,
		    c.title = row.title,
		    c.statute_id = $statute_id,
		    c.statute_type = $statute_type
		MERGE (s)-[:HAS_CHAPTER]->(c)
	`
	params := map[string]interface{}{
		"statute_id":   documentID,
		"statute_type": statute.DocumentTypeBareAct,
		"batch":        batch,
	}

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (interface{}, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGraphError, "failed to create chapter nodes")
	}

	r.log.Debug("Created chapters",
		logging.String("document_id", documentID), logging.Int("count", len(chapterIDs)))
	return chapterIDs, nil
}

// createSectionNodes writes every numbered section and links it to its
// statute and, when the chapter was recovered, to the containing chapter.
func (r *statuteRepo) createSectionNodes(ctx context.Context, act *statute.Act, documentID string, chapterIDs map[string]string) (int, error) {
	batch := make([]map[string]interface{}, 0, len(act.Sections))
	for _, sec := range act.Sections {
		if sec.Number == "" {
			continue
		}
		row := map[string]interface{}{
			"section_id":      fmt.Sprintf("%s_section_%s", documentID, sec.Number),
			"number":          sec.Number,
			"title":           sec.Title,
			"content":         statute.Truncate(sec.Content, statute.MaxSectionContentLength),
			"chapter_number":  sec.ChapterNumber,
			"chapter_title":   sec.ChapterTitle,
			"has_proviso":     sec.HasProviso,
			"has_explanation": sec.HasExplanation,
			"chapter_id":      chapterIDs[sec.ChapterNumber],
		}
		batch = append(batch, row)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	sectionQuery := `
		MATCH (s:Statute {id: $statute_id})
		UNWIND $batch AS row
		MERGE (sec:Section {id: row.section_id})
		SET sec.number = row.number,
		    sec.title = row.title,
		    sec.content = row.content,
		    sec.chapter_number = row.chapter_number,
		    sec.chapter_title = row.chapter_title,
		    sec.has_proviso = row.has_proviso,
		    sec.has_explanation = row.has_explanation,
		    sec.statute_id = $statute_id,
		    sec.statute_type = $statute_type
		MERGE (s)-[:HAS_SECTION]->(sec)
	`
	linkQuery := `
		UNWIND $batch AS row
		MATCH (c:Chapter {id: row.chapter_id})
		MATCH (sec:Section {id: row.section_id})
		MERGE (c)-[:CONTAINS_SECTION]->(sec)
	`

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (interface{}, error) {
		params := map[string]interface{}{
			"statute_id":   documentID,
			"statute_type": statute.DocumentTypeBareAct,
			"batch":        batch,
		}
		if _, err := tx.Run(ctx, sectionQuery, params); err != nil {
			return nil, err
		}

		linked := make([]map[string]interface{}, 0, len(batch))
		for _, row := range batch {
			if id, _ := row["chapter_id"].(string); id != "" {
				linked = append(linked, row)
			}
		}
		if len(linked) > 0 {
			if _, err := tx.Run(ctx, linkQuery, map[string]interface{}{"batch": linked}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeGraphError, "failed to create section nodes")
	}

	r.log.Debug("Created sections",
		logging.String("document_id", documentID), logging.Int("count", len(batch)))
	return len(batch), nil
}

// createReferenceEdges links sections that cite each other. Only targets that
// name a section present in this document become edges; sub-section and
// clause references have no node of their own to point at.
func (r *statuteRepo) createReferenceEdges(ctx context.Context, act *statute.Act, documentID string) (int, error) {
	if len(act.CrossReferences) == 0 {
		return 0, nil
	}

	known := make(map[string]bool, len(act.Sections))
	for _, sec := range act.Sections {
		known[sec.Number] = true
	}

	type pair struct{ source, target string }
	seen := make(map[pair]bool, len(act.CrossReferences))
	batch := make([]map[string]interface{}, 0, len(act.CrossReferences))
	for _, ref := range act.CrossReferences {
		source, target := ref.SourceSection, ref.TargetReference
		if source == "" || target == "" || source == target {
			continue
		}
		if !known[source] || !known[target] {
			continue
		}
		p := pair{source, target}
		if seen[p] {
			continue
		}
		seen[p] = true
		batch = append(batch, map[string]interface{}{
			"source_id": fmt.Sprintf("%s_section_%s", documentID, source),
			"target_id": fmt.Sprintf("%s_section_%s", documentID, target),
			"text":      ref.ReferenceText,
		})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	query := `
		UNWIND $batch AS row
		MATCH (a:Section {id: row.source_id})
		MATCH (b:Section {id: row.target_id})
		MERGE (a)-[ref:REFERS_TO]->(b)
		SET ref.text = row.text
	`

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (interface{}, error) {
		_, err := tx.Run(ctx, query, map[string]interface{}{"batch": batch})
		return nil, err
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeGraphError, "failed to create reference edges")
	}

	r.log.Debug("Created reference edges",
		logging.String("document_id", documentID), logging.Int("count", len(batch)))
	return len(batch), nil
}
