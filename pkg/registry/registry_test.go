package registry

import (
	"sync"
	"testing"

	"github.com/marmos91/docroots/pkg/document"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Run("EmptyConfigIsValid", func(t *testing.T) {
		reg, err := NewRegistry(fs, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Len())
		assert.Empty(t, reg.Roots())
	})

	t.Run("DefaultsTitleToTag", func(t *testing.T) {
		reg, err := NewRegistry(fs, []RootConfig{{Tag: "docs", Path: "/data/docs/"}})
		require.NoError(t, err)

		root, err := reg.Lookup("docs")
		require.NoError(t, err)
		assert.Equal(t, "docs", root.Title)
		assert.Equal(t, "/data/docs", root.Path)
	})

	t.Run("RootsSortedByTag", func(t *testing.T) {
		reg, err := NewRegistry(fs, []RootConfig{
			{Tag: "zeta", Path: "/z"},
			{Tag: "alpha", Path: "/a"},
		})
		require.NoError(t, err)

		roots := reg.Roots()
		require.Len(t, roots, 2)
		assert.Equal(t, "alpha", roots[0].Tag)
		assert.Equal(t, "zeta", roots[1].Tag)
	})

	invalid := []struct {
		name    string
		configs []RootConfig
	}{
		{"EmptyTag", []RootConfig{{Tag: "", Path: "/a"}}},
		{"ColonInTag", []RootConfig{{Tag: "a:b", Path: "/a"}}},
		{"RelativePath", []RootConfig{{Tag: "a", Path: "a"}}},
		{"DuplicateTag", []RootConfig{{Tag: "a", Path: "/a"}, {Tag: "a", Path: "/b"}}},
		{"SharedPath", []RootConfig{{Tag: "a", Path: "/x"}, {Tag: "b", Path: "/x/"}}},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(fs, tc.configs)
			require.Error(t, err)
			assert.True(t, document.IsConfig(err), "expected ErrConfig, got %v", err)
		})
	}
}

func TestLookup(t *testing.T) {
	reg, err := NewRegistry(afero.NewMemMapFs(), []RootConfig{{Tag: "docs", Path: "/data/docs"}})
	require.NoError(t, err)

	_, err = reg.Lookup("missing")
	assert.True(t, document.IsUnknownRoot(err))

	exists, err := afero.DirExists(reg.Fs(), "/data/docs")
	require.NoError(t, err)
	assert.False(t, exists, "Lookup must not touch the filesystem")
}

func TestResolveTagMaterializes(t *testing.T) {
	fs := afero.NewMemMapFs()
	reg, err := NewRegistry(fs, []RootConfig{{Tag: "docs", Path: "/data/docs"}})
	require.NoError(t, err)

	path, err := reg.ResolveTag("docs")
	require.NoError(t, err)
	assert.Equal(t, "/data/docs", path)

	exists, err := afero.DirExists(fs, "/data/docs")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = reg.ResolveTag("nope")
	assert.True(t, document.IsUnknownRoot(err))
}

func TestEnsureMaterializedConcurrent(t *testing.T) {
	reg, err := NewRegistry(afero.NewOsFs(), []RootConfig{{Tag: "docs", Path: t.TempDir() + "/nested/docs"}})
	require.NoError(t, err)
	root, err := reg.Lookup("docs")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- reg.EnsureMaterialized(root)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestEnsureMaterializedOverFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/docs", []byte("x"), 0644))

	reg, err := NewRegistry(fs, []RootConfig{{Tag: "docs", Path: "/data/docs"}})
	require.NoError(t, err)

	_, err = reg.ResolveTag("docs")
	assert.True(t, document.IsIO(err), "expected ErrIO, got %v", err)
}

func TestResolvePath(t *testing.T) {
	reg, err := NewRegistry(afero.NewMemMapFs(), []RootConfig{
		{Tag: "a", Path: "/data/a"},
		{Tag: "b", Path: "/data/a/b"},
		{Tag: "docs", Path: "/data/docs"},
	})
	require.NoError(t, err)

	tests := []struct {
		path string
		tag  string
	}{
		{"/data/a", "a"},
		{"/data/a/x", "a"},
		{"/data/a/b", "b"},
		{"/data/a/b/x", "b"},
		{"/data/a/bb/x", "a"},
		{"/data/docs/file.txt", "docs"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			root, err := reg.ResolvePath(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.tag, root.Tag)
		})
	}

	t.Run("SegmentPrefixOnly", func(t *testing.T) {
		_, err := reg.ResolvePath("/data/docs2/file.txt")
		assert.True(t, document.IsNoContainingRoot(err))
	})

	t.Run("Relative", func(t *testing.T) {
		_, err := reg.ResolvePath("data/a/x")
		assert.True(t, document.IsNoContainingRoot(err))
	})
}

func TestRootRel(t *testing.T) {
	root := &Root{Tag: "docs", Path: "/data/docs", segments: splitPath("/data/docs")}

	rel, ok := root.Rel("/data/docs")
	assert.True(t, ok)
	assert.Equal(t, "", rel)

	rel, ok = root.Rel("/data/docs/a/b.txt")
	assert.True(t, ok)
	assert.Equal(t, "a/b.txt", rel)

	_, ok = root.Rel("/data/docs2")
	assert.False(t, ok)

	assert.Equal(t, "/data/docs/a/b.txt", root.Join("a/b.txt"))
	assert.Equal(t, "/data/docs", root.Join(""))
}

func TestRootFlags(t *testing.T) {
	rw := &Root{Tag: "rw"}
	ro := &Root{Tag: "ro", ReadOnly: true}

	assert.True(t, rw.Flags().Has(document.RootFlagSupportsCreate|document.RootFlagLocalOnly|document.RootFlagSupportsIsChild))
	assert.False(t, ro.Flags().Has(document.RootFlagSupportsCreate))
	assert.True(t, ro.Flags().Has(document.RootFlagSupportsIsChild))

	summary := rw.Summary()
	assert.Equal(t, "rw", summary.RootID)
	assert.Equal(t, document.ID("rw:"), summary.DocumentID)
}
