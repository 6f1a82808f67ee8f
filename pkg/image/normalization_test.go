package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMD5Hex(t *testing.T) {
	assert.Equal(t, "e426c968ded84c5ea8b2e3b5e3e7a865", MD5Hex("some input test string"))
	assert.Len(t, MD5Hex(""), 32)
}

func TestConvertImagePath(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{
			name:  "no tag",
			image: "github.com/tektoncd/pipeline/cmd/git-init",
			want:  "git-init-4874978a9786b6625dd8b6ef2a21aa70",
		},
		{
			name:  "with tag",
			image: "github.com/tektoncd/pipeline/cmd/kubeconfigwriter:v20201022-ceeec6463e.1_1A",
			want:  "kubeconfigwriter-3d37fea0b053ea82d66b7c0bae03dcb0:v20201022-ceeec6463e.1_1A",
		},
		{
			name:  "tag excluded from hash",
			image: "a/b/name:tag",
			want:  "name-" + MD5Hex("a/b/name") + ":tag",
		},
		{
			name:  "no trailing colon without tag",
			image: "a/b/name",
			want:  "name-" + MD5Hex("a/b/name"),
		},
		{
			name:  "more than one colon drops the tag",
			image: "a/b/name:tag:extra",
			want:  "name-eac05f0f1d08e00324cd0df4ca2cc746",
		},
		{
			name:  "registry port hashes up to the first colon",
			image: "localhost:5000/a/name:v1",
			want:  "localhost-" + MD5Hex("localhost"),
		},
		{
			name:  "bare name",
			image: "controller",
			want:  "controller-" + MD5Hex("controller"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertImagePath(tt.image))
		})
	}
}
