package datapackage

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Zip saves a zip-compressed file containing the package descriptor and all
// local resource data. Remote resources stay referenced by URL.
// It creates the named file with mode 0666 (before umask), truncating
// it if it already exists.
func (p *Package) Zip(zipPath string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	if err := p.writeZip(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *Package) writeZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	dw, err := zw.Create(descriptorFileNameWithinZip)
	if err != nil {
		return err
	}
	if err := p.write(dw); err != nil {
		return err
	}
	for _, r := range p.resources {
		for _, rp := range r.path {
			if isRemotePath(rp) {
				continue
			}
			if err := addFile(zw, joinPaths(r.basePath, rp), path.Clean(rp)); err != nil {
				return err
			}
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error reading resource file (%s): %w", src, err)
	}
	defer f.Close()
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, f)
	return err
}

func unzip(archive, basePath string) (map[string]struct{}, error) {
	fileNames := make(map[string]struct{})
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("error opening zip reader(%s): %w", archive, err)
	}
	defer reader.Close()
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating directory (%s): %w", basePath, err)
	}
	for _, file := range reader.File {
		if path.IsAbs(file.Name) || strings.HasPrefix(path.Clean(file.Name), "..") {
			return nil, fmt.Errorf("invalid zip entry name (%s, %s)", archive, file.Name)
		}
		fileNames[file.Name] = struct{}{}
		target := filepath.Join(basePath, filepath.FromSlash(file.Name))
		if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return nil, fmt.Errorf("error creating directory (%s): %w", filepath.Dir(target), err)
		}
		if err := extract(file, target); err != nil {
			return nil, fmt.Errorf("error extracting zip entry (%s, %s): %w", archive, file.Name, err)
		}
	}
	return fileNames, nil
}

func extract(file *zip.File, target string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
