package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/pipeline"
)

// WriteJSON writes res as indented JSON.
func WriteJSON(res *pipeline.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// ReadJSON reads a result written by WriteJSON. Load case errors come back
// as messages only.
func ReadJSON(r io.Reader) (*pipeline.Result, error) {
	var res pipeline.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result")
	}
	if res.Mesh.Nodes() != 0 && res.Mesh.Elements() != res.Mesh.Nodes()-1 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"result mesh has %d nodes and %d elements", res.Mesh.Nodes(), res.Mesh.Elements())
	}
	return &res, nil
}

// ExportJSON writes res to path.
func ExportJSON(res *pipeline.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(res, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportJSON reads a result from path.
func ImportJSON(path string) (*pipeline.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}
