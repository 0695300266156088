package patch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}

func TestTransaction_Create(t *testing.T) {
	t.Parallel()

	t.Run("committed create reads back exactly", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		tx := patch.New(root)

		content := "export const projects = [\n  // PROJECTS\n];\n"
		record, err := tx.Apply(folio.Action{Path: "src/projects.js", Kind: folio.KindCreate, Content: content})
		require.NoError(t, err)
		assert.True(t, record.Created())
		assert.Equal(t, content, record.After)

		require.NoError(t, tx.Commit(tx.Records()))
		assert.Equal(t, content, readFile(t, root, "src/projects.js"))
	})

	t.Run("re-applying the same create is idempotent", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "notes.md", "old")

		tx := patch.New(root)
		action := folio.Action{Path: "notes.md", Kind: folio.KindCreate, Content: "new"}

		first, err := tx.Apply(action)
		require.NoError(t, err)
		require.NotNil(t, first.Before)
		assert.Equal(t, "old", *first.Before)

		second, err := tx.Apply(action)
		require.NoError(t, err)
		assert.Equal(t, "new", second.After)

		require.NoError(t, tx.Commit(tx.Records()))
		assert.Equal(t, "new", readFile(t, root, "notes.md"))
	})
}

func TestTransaction_Append(t *testing.T) {
	t.Parallel()

	t.Run("file without trailing newline gets exactly one separator", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "log.md", "first entry")

		tx := patch.New(root)
		record, err := tx.Apply(folio.Action{Path: "log.md", Kind: folio.KindAppend, Content: "second entry"})
		require.NoError(t, err)
		assert.Equal(t, "first entry\nsecond entry", record.After)
	})

	t.Run("file with trailing newline is not doubled", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "log.md", "first entry\n")

		tx := patch.New(root)
		record, err := tx.Apply(folio.Action{Path: "log.md", Kind: folio.KindAppend, Content: "second entry"})
		require.NoError(t, err)
		assert.Equal(t, "first entry\nsecond entry", record.After)
	})

	t.Run("append to missing file creates it", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		tx := patch.New(root)

		record, err := tx.Apply(folio.Action{Path: "log.md", Kind: folio.KindAppend, Content: "first"})
		require.NoError(t, err)
		assert.True(t, record.Created())
		assert.Equal(t, "first", record.After)
	})
}

func TestTransaction_InsertAfterMarker(t *testing.T) {
	t.Parallel()

	t.Run("inserts after the first exact match", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "README.md", "# Hi\n\n## Projects\n\n- existing\n")

		tx := patch.New(root)
		record, err := tx.Apply(folio.Action{
			Path:    "README.md",
			Kind:    folio.KindInsertAfterMarker,
			Marker:  "## Projects",
			Content: "- new entry",
		})
		require.NoError(t, err)
		assert.Equal(t, "# Hi\n\n## Projects\n- new entry\n\n- existing\n", record.After)
	})

	t.Run("missing marker leaves file byte-identical", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		original := "# Hi\n\nno such marker here"
		writeFile(t, root, "README.md", original)

		tx := patch.New(root)
		_, err := tx.Apply(folio.Action{
			Path:    "README.md",
			Kind:    folio.KindInsertAfterMarker,
			Marker:  "## Projects",
			Content: "- new entry",
		})
		require.ErrorIs(t, err, patch.ErrMarkerNotFound)

		assert.Empty(t, tx.Records())
		assert.Equal(t, original, readFile(t, root, "README.md"))
	})

	t.Run("substring match is not a match", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "README.md", "## Projects and things\n")

		tx := patch.New(root)
		_, err := tx.Apply(folio.Action{
			Path:    "README.md",
			Kind:    folio.KindInsertAfterMarker,
			Marker:  "## Projects",
			Content: "- new entry",
		})
		require.ErrorIs(t, err, patch.ErrMarkerNotFound)
	})

	t.Run("sees markers introduced by earlier actions in the same transaction", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		tx := patch.New(root)

		_, err := tx.Apply(folio.Action{
			Path:    "data/projects.json",
			Kind:    folio.KindCreate,
			Content: "[\n  // ENTRIES\n]\n",
		})
		require.NoError(t, err)

		record, err := tx.Apply(folio.Action{
			Path:    "data/projects.json",
			Kind:    folio.KindInsertAfterMarker,
			Marker:  "  // ENTRIES",
			Content: "  {\"title\": \"folio\"},",
		})
		require.NoError(t, err)
		assert.Equal(t, "[\n  // ENTRIES\n  {\"title\": \"folio\"},\n]\n", record.After)
	})

	t.Run("preserves missing trailing newline", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "README.md", "## Projects\n- existing")

		tx := patch.New(root)
		record, err := tx.Apply(folio.Action{
			Path:    "README.md",
			Kind:    folio.KindInsertAfterMarker,
			Marker:  "## Projects",
			Content: "- new",
		})
		require.NoError(t, err)
		assert.Equal(t, "## Projects\n- new\n- existing", record.After)
	})
}

func TestTransaction_Validation(t *testing.T) {
	t.Parallel()

	t.Run("traversal is rejected before any mutation", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		tx := patch.New(root)

		_, err := tx.Apply(folio.Action{Path: "../escape.md", Kind: folio.KindCreate, Content: "x"})
		require.Error(t, err)

		var verr folio.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, folio.ReasonPathTraversal, verr.Reason)
		assert.Empty(t, tx.Records())
	})

	t.Run("failed action keeps the transaction usable", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		tx := patch.New(root)

		_, err := tx.Apply(folio.Action{Path: "a.md", Kind: "bogus"})
		require.Error(t, err)

		_, err = tx.Apply(folio.Action{Path: "a.md", Kind: folio.KindCreate, Content: "ok"})
		require.NoError(t, err)
		assert.Len(t, tx.Records(), 1)
	})
}

func TestTransaction_CommitAndRollback(t *testing.T) {
	t.Parallel()

	t.Run("nothing is written before commit", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		tx := patch.New(root)

		_, err := tx.Apply(folio.Action{Path: "new.md", Kind: folio.KindCreate, Content: "x"})
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(root, "new.md"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejected records are never written", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		tx := patch.New(root)

		accepted, err := tx.Apply(folio.Action{Path: "keep.md", Kind: folio.KindCreate, Content: "keep"})
		require.NoError(t, err)
		_, err = tx.Apply(folio.Action{Path: "drop.md", Kind: folio.KindCreate, Content: "drop"})
		require.NoError(t, err)

		require.NoError(t, tx.Commit([]folio.ChangeRecord{accepted}))

		assert.Equal(t, "keep", readFile(t, root, "keep.md"))
		_, err = os.Stat(filepath.Join(root, "drop.md"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rollback restores pre-apply content exactly", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		original := "# Site\n\ncontent without trailing newline"
		writeFile(t, root, "index.md", original)

		tx := patch.New(root)

		_, err := tx.Apply(folio.Action{Path: "index.md", Kind: folio.KindReplace, Content: "replaced\n"})
		require.NoError(t, err)
		_, err = tx.Apply(folio.Action{Path: "src/projects.js", Kind: folio.KindCreate, Content: "new file\n"})
		require.NoError(t, err)

		records := tx.Records()
		require.NoError(t, tx.Commit(records))
		assert.Equal(t, "replaced\n", readFile(t, root, "index.md"))

		// Simulated build-verification failure.
		require.NoError(t, tx.Rollback(records))

		assert.Equal(t, original, readFile(t, root, "index.md"))
		_, err = os.Stat(filepath.Join(root, "src/projects.js"))
		assert.True(t, os.IsNotExist(err), "created file must be deleted on rollback")
	})

	t.Run("rollback with repeated edits to one file restores the original", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "a.md", "v0")

		tx := patch.New(root)
		_, err := tx.Apply(folio.Action{Path: "a.md", Kind: folio.KindReplace, Content: "v1"})
		require.NoError(t, err)
		_, err = tx.Apply(folio.Action{Path: "a.md", Kind: folio.KindReplace, Content: "v2"})
		require.NoError(t, err)

		records := tx.Records()
		require.NoError(t, tx.Commit(records))
		require.NoError(t, tx.Rollback(records))

		assert.Equal(t, "v0", readFile(t, root, "a.md"))
	})

	t.Run("transactions for two repositories are independent", func(t *testing.T) {
		t.Parallel()

		siteRoot := t.TempDir()
		profileRoot := t.TempDir()
		writeFile(t, profileRoot, "README.md", "profile\n")

		site := patch.New(siteRoot)
		profile := patch.New(profileRoot)

		_, err := site.Apply(folio.Action{Path: "x.md", Kind: folio.KindCreate, Content: "site"})
		require.NoError(t, err)
		_, err = profile.Apply(folio.Action{Path: "README.md", Kind: folio.KindReplace, Content: "updated\n"})
		require.NoError(t, err)

		require.NoError(t, site.Commit(site.Records()))
		require.NoError(t, profile.Commit(profile.Records()))

		// Site verification fails; only the site transaction rolls back.
		require.NoError(t, site.Rollback(site.Records()))

		_, err = os.Stat(filepath.Join(siteRoot, "x.md"))
		assert.True(t, os.IsNotExist(err))
		assert.Equal(t, "updated\n", readFile(t, profileRoot, "README.md"))
	})
}
