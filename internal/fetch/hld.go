package fetch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// HLDZipURL is the full Human Life-Table Database bundle on lifetable.de.
const HLDZipURL = "https://www.lifetable.de/File/GetDocument/data/hld.zip"

// ExtractHLDData pulls the main data file out of the downloaded HLD zip.
// The bundle historically names it "res"; any single CSV also qualifies.
func ExtractHLDData(payload []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("open HLD zip: %w", err)
	}

	var data *zip.File
	for _, f := range zr.File {
		name := f.Name
		if name == "res" || name == "data.csv" || strings.HasSuffix(name, ".csv") {
			data = f
			break
		}
	}
	if data == nil {
		return nil, fmt.Errorf("no recognizable data file in HLD zip")
	}

	rc, err := data.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", data.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", data.Name, err)
	}
	return out, nil
}
