package image

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKubeconfigwriter = "gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/kubeconfigwriter:v20201022-ceeec6463e.1_1A@sha256:68453f5bb4b76c0eab98964754114d4f79d3a50413872520d8919a6786ea2b35"
	testGitInit          = "gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/git-init@sha256:7d5520efa2d55e1346c424797988c541327ee52ef810a840b5c6f278a9de934a"
)

func TestHasDigest(t *testing.T) {
	assert.True(t, HasDigest(testGitInit))
	assert.False(t, HasDigest("gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/git-init"))
	assert.False(t, HasDigest("gcr.io/x/y@sha512:abcd"))
}

func TestStripDigest(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{
			name:  "tag and digest",
			image: testKubeconfigwriter,
			want:  "gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/kubeconfigwriter:v20201022-ceeec6463e.1_1A",
		},
		{
			name:  "digest only",
			image: testGitInit,
			want:  "gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/git-init",
		},
		{
			name:  "short fake digest",
			image: "gcr.io/knative-releases/something-else@sha256:somedigest",
			want:  "gcr.io/knative-releases/something-else",
		},
		{
			name:  "no digest",
			image: "gcr.io/x/y:v1",
			want:  "gcr.io/x/y:v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripDigest(tt.image))
		})
	}
}

func TestParseReference(t *testing.T) {
	t.Run("tag and digest", func(t *testing.T) {
		ref, err := ParseReference(testKubeconfigwriter)
		require.NoError(t, err)
		assert.Equal(t, "gcr.io", ref.Registry)
		assert.Equal(t, "tekton-releases/github.com/tektoncd/pipeline/cmd", ref.Path)
		assert.Equal(t, "kubeconfigwriter", ref.Name)
		assert.Equal(t, "v20201022-ceeec6463e.1_1A", ref.Tag)
		assert.Equal(t, "sha256:68453f5bb4b76c0eab98964754114d4f79d3a50413872520d8919a6786ea2b35", ref.Digest)
		assert.Equal(t, StripDigest(testKubeconfigwriter), ref.Identifier())
		assert.Equal(t, testKubeconfigwriter, ref.String())
	})

	t.Run("digest only", func(t *testing.T) {
		ref, err := ParseReference(testGitInit)
		require.NoError(t, err)
		assert.Empty(t, ref.Tag)
		assert.Equal(t, "tekton-releases/github.com/tektoncd/pipeline/cmd/git-init", ref.Repository())
		assert.Equal(t, testGitInit, ref.String())
	})

	t.Run("single segment repository", func(t *testing.T) {
		ref, err := ParseReference("gcr.io/controller@sha256:bdc6f22a44944c829983c30213091b60f490b41f89577e8492f6a2936be0df41")
		require.NoError(t, err)
		assert.Empty(t, ref.Path)
		assert.Equal(t, "controller", ref.Name)
		assert.Equal(t, "controller", ref.Repository())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseReference("")
		assert.ErrorIs(t, err, ErrEmptyImageReference)
	})

	t.Run("missing digest", func(t *testing.T) {
		_, err := ParseReference("gcr.io/x/y:v1")
		var digestErr *InvalidDigestError
		require.True(t, errors.As(err, &digestErr))
		assert.Equal(t, "gcr.io/x/y:v1", digestErr.Image)
		assert.ErrorIs(t, err, ErrMissingDigest)
	})

	t.Run("truncated digest", func(t *testing.T) {
		_, err := ParseReference("gcr.io/knative-releases/something-else@sha256:somedigest")
		var digestErr *InvalidDigestError
		assert.True(t, errors.As(err, &digestErr))
	})
}

func TestVerifyDigests(t *testing.T) {
	assert.NoError(t, VerifyDigests([]string{testKubeconfigwriter, testGitInit}))
	assert.NoError(t, VerifyDigests(nil))

	err := VerifyDigests([]string{testGitInit, "gcr.io/bad@sha256:1234", "gcr.io/worse@sha256:5678"})
	var digestErr *InvalidDigestError
	require.True(t, errors.As(err, &digestErr))
	assert.Equal(t, "gcr.io/bad@sha256:1234", digestErr.Image)
}

func TestCheckIdentifier(t *testing.T) {
	ref, err := ParseReference(testKubeconfigwriter)
	require.NoError(t, err)
	assert.NoError(t, checkIdentifier(testKubeconfigwriter, ref))

	other := *ref
	other.Tag = "v2"
	err = checkIdentifier(testKubeconfigwriter, &other)
	var digestErr *InvalidDigestError
	require.True(t, errors.As(err, &digestErr))
	assert.Equal(t, testKubeconfigwriter, digestErr.Image)
	assert.ErrorIs(t, err, ErrIdentifierMismatch)
	assert.Contains(t, err.Error(), ":v2")
}
