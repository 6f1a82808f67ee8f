package manifest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	containerRegistry = "gcr.io/tekton-releases"
	imageBase         = containerRegistry + "/github.com/tektoncd/pipeline/cmd/"
)

var (
	releaseYAML           = filepath.Join("testdata", "release.yaml")
	releaseYAMLNoPreserve = filepath.Join("testdata", "release_no_preserve_path.yaml")

	builtImages = []string{
		"gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/kubeconfigwriter:v20201022-ceeec6463e.1_1A@sha256:68453f5bb4b76c0eab98964754114d4f79d3a50413872520d8919a6786ea2b35",
		"gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/git-init@sha256:7d5520efa2d55e1346c424797988c541327ee52ef810a840b5c6f278a9de934a",
		"gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/controller@sha256:bdc6f22a44944c829983c30213091b60f490b41f89577e8492f6a2936be0df41",
		"gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/webhook@sha256:cca7069a11aaf0d9d214306d456bc40b2e33e5839429bf07c123ad964d495d8a",
	}
	builtImagesNoPreserve = []string{
		"gcr.io/tekton-releases/kubeconfigwriter-3d37fea0b053ea82d66b7c0bae03dcb0:v20201022-ceeec6463e.1_1A@sha256:68453f5bb4b76c0eab98964754114d4f79d3a50413872520d8919a6786ea2b35",
		"gcr.io/tekton-releases/git-init-4874978a9786b6625dd8b6ef2a21aa70@sha256:7d5520efa2d55e1346c424797988c541327ee52ef810a840b5c6f278a9de934a",
		"gcr.io/tekton-releases/controller-10a3e32792f33651396d02b6855a6e36@sha256:bdc6f22a44944c829983c30213091b60f490b41f89577e8492f6a2936be0df41",
		"gcr.io/tekton-releases/webhook-d4749e605405422fd87700164e31b2d1@sha256:cca7069a11aaf0d9d214306d456bc40b2e33e5839429bf07c123ad964d495d8a",
	}
)

func TestScanFile(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		path   string
		want   []string
	}{
		{name: "preserved paths", prefix: imageBase, path: releaseYAML, want: builtImages},
		{name: "flattened paths", prefix: containerRegistry, path: releaseYAMLNoPreserve, want: builtImagesNoPreserve},
		{name: "not a manifest", prefix: imageBase, path: "scanner.go", want: []string{}},
	}

	scanner := NewScanner(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanner.ScanFile(tt.prefix, tt.path)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ScanFile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanFileMissing(t *testing.T) {
	scanner := NewScanner(afero.NewMemMapFs())
	_, err := scanner.ScanFile(imageBase, "whoops")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "expected not-exist error, got %v", err)
	assert.Contains(t, err.Error(), "whoops")
}

func TestScan(t *testing.T) {
	t.Run("multiple matches on one line keep order", func(t *testing.T) {
		input := "a: gcr.io/x/b@sha256:01 c: gcr.io/x/a:v1@sha256:ff\n"
		got, err := Scan("gcr.io/x/", strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []string{"gcr.io/x/b@sha256:01", "gcr.io/x/a:v1@sha256:ff"}, got)
	})

	t.Run("duplicates preserved", func(t *testing.T) {
		input := "image: gcr.io/x/b@sha256:01\nimage: gcr.io/x/b@sha256:01"
		got, err := Scan("gcr.io/x/", strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []string{"gcr.io/x/b@sha256:01", "gcr.io/x/b@sha256:01"}, got)
	})

	t.Run("reference without digest is ignored", func(t *testing.T) {
		got, err := Scan("gcr.io/x/", strings.NewReader("image: gcr.io/x/b:v1\n"))
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := Scan("gcr.io/x/", strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, []string{}, got)
	})

	t.Run("very long line", func(t *testing.T) {
		input := strings.Repeat("x", 1<<20) + " gcr.io/x/b@sha256:0a\n"
		got, err := Scan("gcr.io/x/", strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []string{"gcr.io/x/b@sha256:0a"}, got)
	})
}

func TestPattern(t *testing.T) {
	t.Run("prefix is not escaped", func(t *testing.T) {
		re, err := Pattern("gcr.io/")
		require.NoError(t, err)
		assert.True(t, re.MatchString("gcrxio/b@sha256:01"))
	})

	t.Run("quoted prefix matches literally", func(t *testing.T) {
		re, err := Pattern(regexp.QuoteMeta("gcr.io/"))
		require.NoError(t, err)
		assert.False(t, re.MatchString("gcrxio/b@sha256:01"))
		assert.True(t, re.MatchString("gcr.io/b@sha256:01"))
	})

	t.Run("invalid prefix", func(t *testing.T) {
		_, err := Pattern("gcr.io/(")
		assert.ErrorIs(t, err, ErrInvalidPrefix)

		_, err = Scan("gcr.io/(", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidPrefix)
	})
}

func TestReadFile(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "release.yaml", []byte("kind: List\n"), 0o644))

	scanner := NewScanner(memFs)
	data, err := scanner.ReadFile("release.yaml")
	require.NoError(t, err)
	assert.Equal(t, "kind: List\n", string(data))

	_, err = scanner.ReadFile("missing.yaml")
	assert.Error(t, err)
}
