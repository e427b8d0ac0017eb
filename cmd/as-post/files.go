package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sapphi-red/midec"
	_ "github.com/sapphi-red/midec/gif"  // import this to detect Animated GIF
	_ "github.com/sapphi-red/midec/png"  // import this to detect APNG
	_ "github.com/sapphi-red/midec/webp" // import this to detect Animated WebP
)

type fileInfo struct {
	Path       string
	Name       string
	MimeType   string
	Size       int
	IsImage    bool
	IsAnimated bool
	Width      int
	Height     int
}

func (i fileInfo) String() string {
	s := fmt.Sprintf("%s (%s, %d bytes", i.Name, i.MimeType, i.Size)
	if i.IsImage {
		s += fmt.Sprintf(", %dx%d", i.Width, i.Height)
	}
	if i.IsAnimated {
		s += ", animated"
	}
	return s + ")"
}

// fileList collects a repeatable flag.
type fileList []string

func (f *fileList) String() string {
	return strings.Join(*f, ",")
}

func (f *fileList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func pathIsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err == nil {
		return fi.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// find returns the regular files under root whose extension is one of exts,
// compared case-insensitively. No extensions matches everything.
func find(root string, exts ...string) ([]string, error) {
	var a []string
	err := filepath.WalkDir(root, func(s string, d fs.DirEntry, e error) error {
		if e != nil {
			return e
		}
		if d.IsDir() {
			return nil
		}
		if len(exts) == 0 {
			a = append(a, s)
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				a = append(a, s)
				break
			}
		}
		return nil
	})
	return a, err
}

// expandPaths replaces each directory in paths with the files beneath it.
func expandPaths(paths []string, exts ...string) ([]string, error) {
	var files []string
	for _, p := range paths {
		isDir, err := pathIsDir(p)
		if err != nil {
			return nil, err
		}
		if !isDir {
			files = append(files, p)
			continue
		}
		found, err := find(p, exts...)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func describeFile(path string) (*fileInfo, error) {

	info := fileInfo{Path: path, Name: filepath.Base(path)}

	file_bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info.Size = len(file_bytes)

	mtype := mimetype.Detect(file_bytes)
	info.MimeType = mtype.String()
	if !strings.HasPrefix(info.MimeType, "image/") {
		return &info, nil
	}

	reader := bytes.NewReader(file_bytes)
	anim, err := midec.IsAnimated(reader)
	if err == nil && anim {
		info.IsAnimated = true
		if mtype.Is("image/png") || mtype.Is("image/vnd.mozilla.apng") {
			info.MimeType = "image/apng"
		}
	}

	reader.Seek(0, 0)
	im, _, err := image.DecodeConfig(reader)
	if err != nil {
		// Formats without a registered decoder are still uploaded as is.
		return &info, nil
	}

	info.IsImage = true
	info.Width = im.Width
	info.Height = im.Height

	return &info, nil
}
