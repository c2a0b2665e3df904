package executor

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultDBFile is the build database file in the working directory.
const DefaultDBFile = ".buildvars.db"

// signatureDB maps each built target to the signature it was built with.
type signatureDB struct {
	Signatures map[string]string `toml:"signatures"`
}

// loadDB reads the database at path. A missing file yields an empty
// database.
func loadDB(path string) (*signatureDB, error) {
	db := &signatureDB{Signatures: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return db, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read build database: %w", err)
	}
	if _, err := toml.Decode(string(data), db); err != nil {
		return nil, fmt.Errorf("failed to parse build database %s: %w", path, err)
	}
	if db.Signatures == nil {
		db.Signatures = make(map[string]string)
	}
	return db, nil
}

// save writes the database to path.
func (db *signatureDB) save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create build database: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(db); err != nil {
		return fmt.Errorf("failed to write build database: %w", err)
	}
	return nil
}

// signature hashes the action's command lines and the content of every
// source file.
func signature(commands [][]string, sources []string) (string, error) {
	h := sha256.New()
	for _, cmd := range commands {
		for _, word := range cmd {
			h.Write([]byte(word))
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	for _, src := range sources {
		f, err := os.Open(src)
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
