// Package schedulefile reads and writes the work schedule as YAML:
//
//	blocks:
//	  - name: Morning
//	    start: "09:00"
//	    end: "14:00"
package schedulefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/security"
	"gopkg.in/yaml.v3"
)

var ErrNoBlocks = errors.New("schedule file has no blocks")

// File is the document stored in a schedule file.
type File struct {
	Blocks []commands.WorkScheduleBlockInput `yaml:"blocks"`
}

// Load reads the blocks from the YAML file at path.
func Load(path string) ([]commands.WorkScheduleBlockInput, error) {
	f, err := security.SafeOpen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	blocks, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return blocks, nil
}

// Parse decodes a schedule document. Unknown keys are rejected.
func Parse(r io.Reader) ([]commands.WorkScheduleBlockInput, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoBlocks
		}
		return nil, err
	}
	if len(file.Blocks) == 0 {
		return nil, ErrNoBlocks
	}
	return file.Blocks, nil
}

// Marshal encodes blocks as a schedule document.
func Marshal(blocks []commands.WorkScheduleBlockInput) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Blocks: blocks}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes blocks to path with owner-only permissions.
func Save(path string, blocks []commands.WorkScheduleBlockInput) error {
	data, err := Marshal(blocks)
	if err != nil {
		return err
	}
	return security.SafeWriteFile(path, data)
}
