package playlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"local":   KindLocal,
		"M3U8":    KindM3U8,
		" stream": KindStream,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("dash")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestIsStreaming(t *testing.T) {
	assert.False(t, KindLocal.IsStreaming())
	assert.True(t, KindM3U8.IsStreaming())
	assert.True(t, KindStream.IsStreaming())
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New(Entry{ID: "a"}, Entry{ID: "a"})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestDefaultsAreUnique(t *testing.T) {
	p, err := New(Defaults()...)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Len())
}

func TestAddAssignsDefaults(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	e, err := p.Add(AddRequest{Title: "  A ", URL: " https://x/a.m3u8 ", Kind: KindM3U8})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "A", e.Title)
	assert.Equal(t, "https://x/a.m3u8", e.URL)
	assert.Equal(t, KindM3U8, e.Kind)
	assert.Equal(t, DefaultDuration, e.Duration)
	assert.Equal(t, DefaultThumbnail, e.Thumbnail)

	got, ok := p.Get(e.ID)
	require.True(t, ok)
	assert.Equal(t, e, got)
	assert.Equal(t, 0, p.Index(e.ID))
}

func TestAddRejectsMissingFields(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.Add(AddRequest{Title: "   ", URL: "https://x/a.m3u8", Kind: KindM3U8})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = p.Add(AddRequest{Title: "A", URL: "", Kind: KindM3U8})
	assert.ErrorIs(t, err, ErrMissingURL)

	_, err = p.Add(AddRequest{Title: "A", URL: "https://x", Kind: "dash"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	assert.Equal(t, 0, p.Len(), "no partial entry may be appended")
}

func TestAddRetriesOnIDCollision(t *testing.T) {
	p, err := New(Entry{ID: "taken"})
	require.NoError(t, err)

	ids := []string{"taken", "fresh"}
	p.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	e, err := p.Add(AddRequest{Title: "B", URL: "/tmp/b.mp4", Kind: KindLocal})
	require.NoError(t, err)
	assert.Equal(t, "fresh", e.ID)
}

func TestReplace(t *testing.T) {
	p, err := New(Entry{ID: "1", Title: "old"})
	require.NoError(t, err)

	require.NoError(t, p.Replace(Entry{ID: "1", Title: "new"}))
	e, _ := p.Get("1")
	assert.Equal(t, "new", e.Title)

	assert.ErrorIs(t, p.Replace(Entry{ID: "2"}), ErrNotFound)
}

func TestEntriesIsACopy(t *testing.T) {
	p, err := New(Entry{ID: "1", Title: "one"})
	require.NoError(t, err)

	entries := p.Entries()
	entries[0].Title = "changed"

	e, err := p.At(0)
	require.NoError(t, err)
	assert.Equal(t, "one", e.Title)

	_, err = p.At(3)
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("10:53")
	assert.NoError(t, err)
	assert.Equal(t, 10*time.Minute+53*time.Second, d)

	d, err = ParseDuration("1:02:03")
	assert.NoError(t, err)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, d)

	for _, bad := range []string{"", "12", "aa:bb", "1:60", "-1:00", "1:2:3:4"} {
		_, err := ParseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestEntryLength(t *testing.T) {
	var nilEntry *Entry
	assert.Equal(t, time.Duration(0), nilEntry.Length())
	assert.Equal(t, "", nilEntry.GetID())

	e := &Entry{ID: "x", Duration: "00:15"}
	assert.Equal(t, 15*time.Second, e.Length())
	e.Duration = "live"
	assert.Equal(t, time.Duration(0), e.Length())
}
