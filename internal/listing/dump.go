package listing

import (
	"encoding/json"
	"os"
)

// DumpToTmpFile writes records as indented JSON to a new temporary file
// and returns its name.
func DumpToTmpFile(kind string, records []*Record) (string, error) {
	file, err := os.CreateTemp("", kind+"_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if records == nil {
		records = []*Record{}
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", err
	}
	return file.Name(), nil
}
