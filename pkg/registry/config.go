package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	log "github.com/tektoncd/koparse/pkg/log"
)

// ImagesFile is the structured form of an expected-images file.
//
//	images:
//	  - github.com/tektoncd/pipeline/cmd/controller
//	  - github.com/tektoncd/pipeline/cmd/webhook
//
// A bare YAML list of strings is accepted as well.
type ImagesFile struct {
	Images []string `json:"images"`
}

// LoadImagesFile reads the expected image identifiers from a YAML file.
// Blank entries are dropped and surrounding whitespace is trimmed.
func LoadImagesFile(fs afero.Fs, path string) ([]string, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WrapImagesFileNotExist(path, err)
		}
		return nil, WrapImagesFileRead(path, err)
	}
	if info.IsDir() {
		return nil, WrapImagesFileRead(path, fmt.Errorf("is a directory"))
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, WrapImagesFileRead(path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, WrapImagesFileEmpty(path)
	}

	raw, err := parseImagesFile(data)
	if err != nil {
		return nil, WrapImagesFileParse(path, err)
	}

	images := make([]string, 0, len(raw))
	for _, img := range raw {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		return nil, WrapImagesFileEmpty(path)
	}

	log.Debug("Loaded expected images", "file", path, "count", len(images))
	return images, nil
}

func parseImagesFile(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var structured ImagesFile
	if err := yaml.UnmarshalStrict(data, &structured); err != nil {
		return nil, fmt.Errorf("expected a list of images or an 'images' key: %w", err)
	}
	return structured.Images, nil
}
