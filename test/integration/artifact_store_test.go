package integration

import (
	"strings"
	"testing"

	"github.com/nyayatech/BareAct-Intelligence/internal/testutil"
)

// TestArtifactStore_RoundTrip writes a parsed act to MinIO and reads it back
// intact, then archives the source text.
func TestArtifactStore_RoundTrip(t *testing.T) {
	env := SetupTestEnvironment(t)
	store := env.RequireArtifacts(t)

	act := ParseSampleAct(t)

	t.Run("PutAndGetDocument", func(t *testing.T) {
		objectName, err := store.PutDocument(env.Ctx, act)
		if err != nil {
			t.Fatalf("put document: %v", err)
		}
		if !strings.Contains(objectName, act.DocumentID()) {
			t.Errorf("object name %q does not carry the document id", objectName)
		}

		got, err := store.GetDocument(env.Ctx, objectName)
		if err != nil {
			t.Fatalf("get document: %v", err)
		}
		if got.DocumentID() != act.DocumentID() {
			t.Errorf("document id = %q, want %q", got.DocumentID(), act.DocumentID())
		}
		if got.ContentHash() != act.ContentHash() {
			t.Errorf("content hash drifted through storage: %q vs %q",
				got.ContentHash(), act.ContentHash())
		}
		if len(got.Sections) != len(act.Sections) {
			t.Errorf("sections = %d, want %d", len(got.Sections), len(act.Sections))
		}
		if got.Metadata.Validation == nil {
			t.Error("validation report lost in storage round trip")
		}
		t.Logf("artifact round trip: %s ✓", objectName)
	})

	t.Run("ArchiveSource", func(t *testing.T) {
		objectName, err := store.ArchiveSource(env.Ctx,
			"regional_data_centres_2015.txt", []byte(testutil.SampleActText))
		if err != nil {
			t.Fatalf("archive source: %v", err)
		}
		if objectName == "" {
			t.Error("archive returned empty object name")
		}
		t.Logf("source archived: %s ✓", objectName)
	})
}
