package stlref

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadTopic decodes a single TOML topic file.
func LoadTopic(r io.Reader) (Topic, error) {
	var t Topic
	if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
		return Topic{}, fmt.Errorf("decode topic: %w", err)
	}
	return t, nil
}

// LoadCatalog reads every .toml file under dir in fsys, in lexical file
// order, and builds a validated catalog from them. Files that do not end in
// .toml are ignored.
func LoadCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	dirEntries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir %q: %w", dir, err)
	}

	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".toml") {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	topics := make([]Topic, 0, len(names))
	for _, name := range names {
		f, err := fsys.Open(path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		t, err := LoadTopic(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		topics = append(topics, t)
	}

	return NewCatalog(topics...)
}
