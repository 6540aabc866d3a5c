package theseus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/amedeedaboville/gix-of-theseus/internal/cohort"
)

// writeAndCommit is a small on-disk repository builder for this package's
// tests; the walker's own scenario coverage lives in
// internal/walker, built against in-memory fixtures instead.
func writeAndCommit(t *testing.T, dir string, files map[string]string, when time.Time) {
	t.Helper()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name := range files {
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	sig :=&object.Signature{Name: "tester", Email: "tester@example.com", When: when}
	_, err = wt.Commit("test commit", &git.CommitOptions{All: true, Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	writeAndCommit(t, dir, map[string]string{"a.txt": "l1\nl2\nl3\n"}, time.Date(2020, 3, 15, 12, 0, 0, 0, time.UTC))

	table, err := Run(Config{RepoPath: dir})
	require.NoError(t, err)
	require.Len(t, table.TS, 1)
	require.Equal(t, []int{2020}, table.YS)
	require.Equal(t, [][]int64{{3}}, table.Data)

	out := filepath.Join(dir, "cohorts.json")
	require.NoError(t, cohort.WriteFile(table, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var roundTripped cohort.Table
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	require.Equal(t, table.TS, roundTripped.TS)
	require.Equal(t, table.Data, roundTripped.Data)
}

func TestRunRejectsEmptyRepoPath(t *testing.T) {
	_, err := Run(Config{})
	require.Error(t, err)
}

func TestRunRejectsBadGlob(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	writeAndCommit(t, dir, map[string]string{"a.txt": "l1\n"}, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err = Run(Config{RepoPath: dir, Include: []string{"[invalid"}})
	require.Error(t, err)
}
