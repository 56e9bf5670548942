package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      timelock.Persistent
}

// TestGenCmd writes the json and protobuf encodings of the given
// examples into a directory, so that clients can test their codecs
// against them. The directory defaults to testdata.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrapf(errors.ErrHuman, "create %s: %s", outdir, err)
	}

	for _, ex := range examples {
		js, err := json.MarshalIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%s: %s", ex.Filename, err)
		}
		if err := writeFile(filepath.Join(outdir, ex.Filename+".json"), js); err != nil {
			return err
		}

		pb, err := timelock.Marshal(ex.Obj)
		if err != nil {
			return errors.Wrap(err, ex.Filename)
		}
		if err := writeFile(filepath.Join(outdir, ex.Filename+".bin"), pb); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrHuman, "write %s: %s", path, err)
	}
	return nil
}
