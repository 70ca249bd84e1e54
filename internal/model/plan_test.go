package model

import (
	"io/fs"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirEntries(t *testing.T, names ...string) []fs.DirEntry {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, n := range names {
		fsys[n] = &fstest.MapFile{Data: []byte(n)}
	}
	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)
	return entries
}

func TestParseSeries(t *testing.T) {
	tests := []struct {
		raw        string
		wantTitle  string
		wantNumber string
	}{
		{"Foo #7", "Foo", "07"},
		{"Foo #7.5", "Foo", "07.5"},
		{"Foo #Special", "Foo", "Special"},
		{"Foo #12", "Foo", "12"},
		{"Foo #123", "Foo", "123"},
		{"Foo #7.x", "Foo", "7.x"},
		{"Foo # 3 ", "Foo", "03"},
		{"Foo: Bar", "Foo Bar", ""},
		{"Foo #1 #2", "Foo", "1 #2"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseSeries(tt.raw)
			if got.Title != tt.wantTitle || got.Number != tt.wantNumber {
				t.Errorf("ParseSeries(%q) = {%q %q}, want {%q %q}",
					tt.raw, got.Title, got.Number, tt.wantTitle, tt.wantNumber)
			}
		})
	}
}

func TestNaturalCompare(t *testing.T) {
	names := []string{"track2.mp3", "track10.mp3", "track1.mp3"}
	slices.SortFunc(names, NaturalCompare)
	assert.Equal(t, []string{"track1.mp3", "track2.mp3", "track10.mp3"}, names)

	tests := []struct {
		a, b string
		want bool
	}{
		{"Part 9", "part 10", true},
		{"PART 2", "part 1", false},
		{"a", "a1", true},
		{"10", "9", false},
		{"disc1-track2", "disc1-track10", true},
		{"007", "8", true},
	}
	for _, tt := range tests {
		if got := NaturalCompare(tt.a, tt.b) < 0; got != tt.want {
			t.Errorf("NaturalCompare(%q, %q) < 0 = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTargetDir(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "series with number",
			rec:  Record{Author: "Frank Herbert", Title: "Dune", Series: "Dune #1"},
			want: "/lib/Frank Herbert/Dune/01 Dune",
		},
		{
			name: "series without number",
			rec:  Record{Author: "Frank Herbert", Title: "Dune", Series: "Dune Saga"},
			want: "/lib/Frank Herbert/Dune Saga/Dune",
		},
		{
			name: "standalone",
			rec:  Record{Author: "Andy Weir", Title: "Project Hail Mary"},
			want: "/lib/Andy Weir/Project Hail Mary",
		},
		{
			name: "sanitized",
			rec:  Record{Author: "AC/DC", Title: "What? Why: How"},
			want: "/lib/ACDC/What Why How",
		},
		{
			name: "number without series title",
			rec:  Record{Author: "Q", Title: "Y", Series: "#3"},
			want: "/lib/Q/Y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetDir(tt.rec, "/lib"))
		})
	}
}

func TestAudioFileName(t *testing.T) {
	tests := []struct {
		name         string
		rec          Record
		index, count int
		want         string
	}{
		{"series", Record{Author: "Frank Herbert", Title: "Dune", Series: "Dune #1"}, 2, 3, "Frank Herbert - Dune 01 - Dune - 02.mp3"},
		{"single file", Record{Author: "Andy Weir", Title: "The Martian"}, 1, 1, "Andy Weir - The Martian.mp3"},
		{"number without series title", Record{Author: "Q", Title: "Y", Series: "#3"}, 1, 1, "Q - Y.mp3"},
		{"number without series title, multi", Record{Author: "Q", Title: "Y", Series: " #3"}, 1, 2, "Q - Y - 01.mp3"},
	}

	for _, tt := range tests {
		if got := AudioFileName(tt.rec, tt.index, tt.count, ".mp3"); got != tt.want {
			t.Errorf("%s: AudioFileName() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewBookPlan_Dune(t *testing.T) {
	rec := Record{Author: "Frank Herbert", Title: "Dune", Series: "Dune #1"}
	src := "/lib/incoming/dune"

	plan, ok := NewBookPlan(rec, PlanConfig{Root: "/lib"}, src,
		dirEntries(t, "chapter1.mp3", "chapter2.mp3", "cover.jpg"))
	require.True(t, ok)

	target := "/lib/Frank Herbert/Dune/01 Dune"
	assert.Equal(t, "Dune", plan.Title)
	assert.Equal(t, src, plan.SourceDir)
	assert.Equal(t, target, plan.TargetDir)
	assert.Equal(t, []Move{
		{filepath.Join(src, "chapter1.mp3"), filepath.Join(target, "Frank Herbert - Dune 01 - Dune - 01.mp3")},
		{filepath.Join(src, "chapter2.mp3"), filepath.Join(target, "Frank Herbert - Dune 01 - Dune - 02.mp3")},
		{filepath.Join(src, "cover.jpg"), filepath.Join(target, "cover.jpg")},
	}, plan.Moves)
}

func TestNewBookPlan_SingleAudioHasNoIndex(t *testing.T) {
	rec := Record{Author: "Andy Weir", Title: "The Martian"}
	plan, ok := NewBookPlan(rec, PlanConfig{Root: "/lib"}, "/lib/x", dirEntries(t, "book.M4B"))
	require.True(t, ok)
	require.Len(t, plan.Moves, 1)
	assert.Equal(t, "Andy Weir - The Martian.M4B", filepath.Base(plan.Moves[0].Dest))
}

func TestNewBookPlan_NaturalNumbering(t *testing.T) {
	rec := Record{Author: "A", Title: "T"}
	plan, ok := NewBookPlan(rec, PlanConfig{Root: "/lib"}, "/lib/x",
		dirEntries(t, "track10.mp3", "track2.mp3", "track1.mp3"))
	require.True(t, ok)

	var got []string
	for _, m := range plan.Moves {
		got = append(got, filepath.Base(m.Source)+" => "+filepath.Base(m.Dest))
	}
	assert.Equal(t, []string{
		"track1.mp3 => A - T - 01.mp3",
		"track2.mp3 => A - T - 02.mp3",
		"track10.mp3 => A - T - 03.mp3",
	}, got)
}

func TestNewBookPlan_CoversEveryFile(t *testing.T) {
	names := []string{"01.mp3", "02.flac", "cover.jpg", "metadata.json", "notes.txt", "x.OGG"}
	plan, ok := NewBookPlan(Record{Author: "A", Title: "T"}, PlanConfig{Root: "/lib"}, "/lib/src",
		dirEntries(t, names...))
	require.True(t, ok)

	var sources []string
	for _, m := range plan.Moves {
		sources = append(sources, filepath.Base(m.Source))
	}
	slices.Sort(sources)
	assert.Equal(t, names, sources)
}

func TestNewBookPlan_AlreadyTidy(t *testing.T) {
	rec := Record{Author: "A", Title: "T"}
	plan, ok := NewBookPlan(rec, PlanConfig{Root: "/lib"}, "/lib/A/T",
		dirEntries(t, "A - T.mp3", "cover.jpg"))
	assert.False(t, ok)
	assert.Nil(t, plan)
}

func TestNewBookPlan_RenameInPlace(t *testing.T) {
	rec := Record{Author: "A", Title: "T"}
	plan, ok := NewBookPlan(rec, PlanConfig{Root: "/lib"}, "/lib/A/T", dirEntries(t, "raw.mp3"))
	require.True(t, ok)
	assert.False(t, plan.DirChanged())
	assert.Len(t, plan.RenamedMoves(), 1)
}

func TestNewBookPlan_CustomExtensions(t *testing.T) {
	cfg := PlanConfig{Root: "/lib", AudioExtensions: []string{".opus"}}
	plan, ok := NewBookPlan(Record{Author: "A", Title: "T"}, cfg, "/lib/src",
		dirEntries(t, "a.opus", "b.mp3"))
	require.True(t, ok)
	assert.Equal(t, "A - T.opus", filepath.Base(plan.Moves[0].Dest))
	assert.Equal(t, "b.mp3", filepath.Base(plan.Moves[1].Dest))
}

func TestLibraryStatistics_Add(t *testing.T) {
	stats := NewLibraryStatistics()
	stats.Add(Record{Author: "A", Title: "1", Narrator: "N", Series: "S #1", Duration: 60, DurationKnown: true}, 100)
	stats.Add(Record{Author: "A", Title: "2", Narrator: "N", Series: "S #2", Duration: 30, DurationKnown: true}, 50)
	stats.Add(Record{Author: "B", Title: "3"}, 10)
	stats.Add(Record{Author: "C", Title: "4", Series: "#3"}, 0)

	assert.Equal(t, 4, stats.Books)
	assert.Equal(t, 3, stats.Authors())
	assert.Equal(t, 1, stats.Narrators())
	assert.Equal(t, 1, stats.Series())
	assert.Equal(t, 1, stats.Standalone)
	assert.Equal(t, 90.0, stats.TotalDuration)
	assert.Equal(t, int64(160), stats.TotalSize)
}

func TestCollisionSet(t *testing.T) {
	c := NewCollisionSet()
	c.Add("b.mp3")
	c.Add("a.mp3")
	c.Add("b.mp3")

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, c.Sorted())
}
