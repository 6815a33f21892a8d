package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanq16/tunequeue/internal/utils"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	h := Load(filepath.Join(t.TempDir(), "none.json"), nil)
	assert.Zero(t, h.Len())
}

func TestLoadMalformedFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var reported error
	h := Load(path, func(err error) { reported = err })
	assert.Zero(t, h.Len())
	assert.Error(t, reported)
}

func TestAddPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h := Load(path, nil)

	_, err := h.Add(utils.NewJob("https://youtu.be/first", utils.StringPtr("First")))
	require.NoError(t, err)
	added, err := h.Add(utils.NewJob("https://youtu.be/second", utils.StringPtr("Second")))
	require.NoError(t, err)
	require.NotNil(t, added.DownloadedAt)

	reloaded := Load(path, nil)
	all := reloaded.All()
	require.Len(t, all, 2)
	last := all[len(all)-1]
	assert.Equal(t, "https://youtu.be/second", last.URL)
	assert.Equal(t, "Second", last.DisplayTitle())
	require.NotNil(t, last.DownloadedAt)
	assert.NotEmpty(t, *last.DownloadedAt)
}

func TestAddStampsWithCurrentTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h := Load(path, nil)
	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)
	h.now = func() time.Time { return fixed }

	job := utils.NewJob("u", nil)
	old := "yesterday"
	job.DownloadedAt = &old
	added, err := h.Add(job)
	require.NoError(t, err)
	assert.Equal(t, utils.FormatTimestamp(fixed), *added.DownloadedAt)
}

func TestAddAllKeepsOrderAndRestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h := Load(path, nil)
	fixed := time.Date(2024, 3, 2, 8, 0, 0, 0, time.Local)
	h.now = func() time.Time { return fixed }

	jobs := []utils.Job{
		utils.NewJob("https://youtu.be/a", utils.StringPtr("A")),
		utils.NewJob("https://youtu.be/b", nil).Stamped(fixed.Add(-time.Hour)),
	}
	require.NoError(t, h.AddAll(jobs))

	reloaded := Load(path, nil).All()
	require.Len(t, reloaded, 2)
	assert.Equal(t, "https://youtu.be/a", reloaded[0].URL)
	assert.Equal(t, "https://youtu.be/b", reloaded[1].URL)
	for _, job := range reloaded {
		require.NotNil(t, job.DownloadedAt)
		assert.Equal(t, utils.FormatTimestamp(fixed), *job.DownloadedAt)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	h := Load(filepath.Join(t.TempDir(), "history.json"), nil)
	jobs := []utils.Job{utils.NewJob("a", nil), utils.NewJob("b", nil), utils.NewJob("c", nil)}
	require.NoError(t, h.AddAll(jobs))

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Job.URL)
	assert.Equal(t, 3, recent[0].Position)
	assert.Equal(t, "b", recent[1].Job.URL)
	assert.Len(t, h.Recent(10), 3)
}

func TestSaveWritesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, Load(path, nil).Save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"downloads": []}`, string(data))
}
