package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database holds all decoded configuration entries for a session
type Database struct {
	parts   map[string]*Part
	classes []*ScaleClass
}

// document is the kind-tagged envelope every entry is wrapped in.
// Spec stays a raw node so each kind can decode its own shape.
type document struct {
	Kind string    `yaml:"kind"`
	Spec yaml.Node `yaml:"spec"`
}

// NewDatabase creates an empty database
func NewDatabase() *Database {
	return &Database{
		parts: make(map[string]*Part),
	}
}

// LoadDir discovers and loads every .yaml/.yml file in dir. A missing
// directory is not an error, just an empty database. Hidden files are
// skipped. Entries with unknown kinds are logged and skipped.
func LoadDir(dir string) (*Database, error) {
	db := NewDatabase()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("config: directory %q does not exist, no entries loaded", dir)
		return db, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		path := filepath.Join(dir, name)
		if err := db.loadFile(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	log.Printf("config: loaded %d part(s), %d scale class(es)", len(db.parts), len(db.classes))
	return db, nil
}

func (db *Database) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return db.Read(f)
}

// Read decodes a stream of kind-tagged YAML documents into the database
func (db *Database) Read(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		if err := db.addDocument(&doc); err != nil {
			return err
		}
	}
}

func (db *Database) addDocument(doc *document) error {
	switch doc.Kind {
	case KindPart:
		var p Part
		if err := doc.Spec.Decode(&p); err != nil {
			return fmt.Errorf("decode part entry: %w", err)
		}
		if p.Name == "" {
			return fmt.Errorf("part entry missing name")
		}
		if _, dup := db.parts[p.Name]; dup {
			log.Printf("config: duplicate part %q, keeping first", p.Name)
			return nil
		}
		db.parts[p.Name] = &p
	case KindScaleClass:
		var c ScaleClass
		if err := doc.Spec.Decode(&c); err != nil {
			return fmt.Errorf("decode scale-class entry: %w", err)
		}
		if c.Name == "" {
			return fmt.Errorf("scale-class entry missing name")
		}
		db.classes = append(db.classes, &c)
	default:
		log.Printf("config: skipping entry with unknown kind %q", doc.Kind)
	}
	return nil
}

// Part returns the named part definition
func (db *Database) Part(name string) (*Part, bool) {
	p, ok := db.parts[name]
	return p, ok
}

// PartNames returns the names of all loaded part definitions
func (db *Database) PartNames() []string {
	names := make([]string, 0, len(db.parts))
	for name := range db.parts {
		names = append(names, name)
	}
	return names
}

// ScaleClasses returns all scale-class definitions in load order
func (db *Database) ScaleClasses() []*ScaleClass {
	return db.classes
}
