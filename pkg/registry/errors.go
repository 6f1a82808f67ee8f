package registry

import (
	"fmt"
)

// ErrImagesFileNotExist indicates the expected-images file does not exist.
type ErrImagesFileNotExist struct {
	Path string
	Err  error
}

func (e *ErrImagesFileNotExist) Error() string {
	return fmt.Sprintf("images file does not exist: %s (%v)", e.Path, e.Err)
}

func (e *ErrImagesFileNotExist) Unwrap() error {
	return e.Err
}

// WrapImagesFileNotExist creates a new ErrImagesFileNotExist error.
func WrapImagesFileNotExist(path string, err error) error {
	return &ErrImagesFileNotExist{Path: path, Err: err}
}

// ErrImagesFileRead indicates an error occurred while reading the images file.
type ErrImagesFileRead struct {
	Path string
	Err  error
}

func (e *ErrImagesFileRead) Error() string {
	return fmt.Sprintf("failed to read images file '%s': %v", e.Path, e.Err)
}

func (e *ErrImagesFileRead) Unwrap() error {
	return e.Err
}

// WrapImagesFileRead creates a new ErrImagesFileRead error.
func WrapImagesFileRead(path string, err error) error {
	return &ErrImagesFileRead{Path: path, Err: err}
}

// ErrImagesFileEmpty indicates the images file holds no image.
type ErrImagesFileEmpty struct {
	Path string
}

func (e *ErrImagesFileEmpty) Error() string {
	return fmt.Sprintf("images file is empty: %s", e.Path)
}

// WrapImagesFileEmpty creates a new ErrImagesFileEmpty error.
func WrapImagesFileEmpty(path string) error {
	return &ErrImagesFileEmpty{Path: path}
}

// ErrImagesFileParse indicates the images file content is not valid YAML of the expected shape.
type ErrImagesFileParse struct {
	Path string
	Err  error
}

func (e *ErrImagesFileParse) Error() string {
	return fmt.Sprintf("failed to parse images file '%s': %v", e.Path, e.Err)
}

func (e *ErrImagesFileParse) Unwrap() error {
	return e.Err
}

// WrapImagesFileParse creates a new ErrImagesFileParse error.
func WrapImagesFileParse(path string, err error) error {
	return &ErrImagesFileParse{Path: path, Err: err}
}
