package integration

import (
	"context"
	"testing"
)

// TestStatuteGraph_SaveAndDelete round-trips a parsed act through the Neo4j
// repository: save, verify the node hierarchy, re-ingest, delete.
func TestStatuteGraph_SaveAndDelete(t *testing.T) {
	env := SetupTestEnvironment(t)
	graph := env.RequireGraph(t)

	act := ParseSampleAct(t)
	t.Cleanup(func() {
		// Best-effort cleanup with a fresh context: env.Ctx is already
		// cancelled by the time cleanups run.
		_ = graph.DeleteStatute(context.Background(), act.DocumentID(), act.FileID())
	})

	if err := graph.EnsureCollection(env.Ctx); err != nil {
		t.Fatalf("ensure collection: %v", err)
	}

	t.Run("Save", func(t *testing.T) {
		stats, err := graph.SaveStatute(env.Ctx, act)
		if err != nil {
			t.Fatalf("save statute: %v", err)
		}
		if stats.ChaptersCreated != 1 || stats.SectionsCreated != 4 {
			t.Errorf("save stats = %d chapters %d sections, want 1 and 4",
				stats.ChaptersCreated, stats.SectionsCreated)
		}
		// Sections 2 and 4 both cite section 3.
		if stats.ReferencesCreated != 2 {
			t.Errorf("save stats = %d references, want 2", stats.ReferencesCreated)
		}

		count, err := CountSectionNodes(env.Ctx, env.Neo4j, act.DocumentID())
		if err != nil {
			t.Fatalf("count section nodes: %v", err)
		}
		if count != 4 {
			t.Errorf("section nodes in graph = %d, want 4", count)
		}

		refs, err := CountReferenceEdges(env.Ctx, env.Neo4j, act.DocumentID())
		if err != nil {
			t.Fatalf("count reference edges: %v", err)
		}
		if refs != 2 {
			t.Errorf("reference edges in graph = %d, want 2", refs)
		}
		t.Logf("statute saved: %s, %d section nodes, %d reference edges ✓", act.DocumentID(), count, refs)
	})

	t.Run("ReingestIsIdempotent", func(t *testing.T) {
		stats, err := graph.SaveStatute(env.Ctx, act)
		if err != nil {
			t.Fatalf("re-save statute: %v", err)
		}
		if stats.SectionsCreated != 4 {
			t.Errorf("re-save sections = %d, want 4", stats.SectionsCreated)
		}

		// The pre-save clean must prevent node and edge duplication.
		count, err := CountSectionNodes(env.Ctx, env.Neo4j, act.DocumentID())
		if err != nil {
			t.Fatalf("count section nodes: %v", err)
		}
		if count != 4 {
			t.Errorf("section nodes after re-ingest = %d, want 4", count)
		}
		refs, err := CountReferenceEdges(env.Ctx, env.Neo4j, act.DocumentID())
		if err != nil {
			t.Fatalf("count reference edges: %v", err)
		}
		if refs != 2 {
			t.Errorf("reference edges after re-ingest = %d, want 2", refs)
		}
		t.Logf("re-ingest left %d section nodes, %d reference edges ✓", count, refs)
	})

	t.Run("Delete", func(t *testing.T) {
		if err := graph.DeleteStatute(env.Ctx, act.DocumentID(), act.FileID()); err != nil {
			t.Fatalf("delete statute: %v", err)
		}
		count, err := CountSectionNodes(env.Ctx, env.Neo4j, act.DocumentID())
		if err != nil {
			t.Fatalf("count section nodes: %v", err)
		}
		if count != 0 {
			t.Errorf("section nodes after delete = %d, want 0", count)
		}
		t.Logf("statute deleted ✓")
	})
}
