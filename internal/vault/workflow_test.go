package vault

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVaultWorkflow exercises a full note-taking session end to end:
// folders are created, notes written, organized, and cleaned up.
func TestVaultWorkflow(t *testing.T) {
	v, err := Open(filepath.Join(t.TempDir(), "notes"))
	require.NoError(t, err)

	// Build the workspace layout.
	_, err = v.CreateFolder("", "inbox")
	require.NoError(t, err)
	_, err = v.CreateFolder("", "projects")
	require.NoError(t, err)
	_, err = v.CreateFolder("projects", "quill")
	require.NoError(t, err)

	// Capture a few notes.
	draft, err := v.CreateNote("inbox", "scratch", "raw thoughts", "txt")
	require.NoError(t, err)
	require.Equal(t, "inbox/scratch", draft.Path)

	_, err = v.CreateNote("projects/quill", "roadmap", "# Roadmap\n- ship it", "md")
	require.NoError(t, err)

	// Refine the draft and file it with the project.
	_, err = v.UpdateNote("inbox/scratch", "cleaned up thoughts")
	require.NoError(t, err)

	note, err := v.RenameNote("inbox/scratch", "design-notes")
	require.NoError(t, err)
	require.Equal(t, "inbox/design-notes", note.Path)

	note, err = v.MoveNote("inbox/design-notes", "projects/quill")
	require.NoError(t, err)
	require.Equal(t, "projects/quill/design-notes", note.Path)
	require.Equal(t, "cleaned up thoughts", note.Content)

	// Reorganize: the project folder gets promoted to the root.
	newPath, err := v.MoveFolder("projects/quill", "")
	require.NoError(t, err)
	require.Equal(t, "quill", newPath)

	newPath, err = v.RenameFolder("quill", "quill-v1")
	require.NoError(t, err)
	require.Equal(t, "quill-v1", newPath)

	// The tree reflects every step.
	tree, err := v.Tree("")
	require.NoError(t, err)
	require.Equal(t, "root", tree.Name)
	require.Len(t, tree.Children, 3)

	var promoted *Folder
	for i := range tree.Children {
		if tree.Children[i].Name == "quill-v1" {
			promoted = &tree.Children[i]
		}
	}
	require.NotNil(t, promoted)
	require.Len(t, promoted.Notes, 2)

	all, err := v.ListAllNotes()
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Tear down: notes first, then the folders.
	require.NoError(t, v.DeleteNote("quill-v1/design-notes"))
	require.NoError(t, v.DeleteFolder("quill-v1", true))
	require.NoError(t, v.DeleteFolder("inbox", false))
	require.NoError(t, v.DeleteFolder("projects", false))

	tree, err = v.Tree("")
	require.NoError(t, err)
	require.Empty(t, tree.Children)
	require.Empty(t, tree.Notes)
}
