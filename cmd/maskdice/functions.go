package main

import (
	"bufio"
	"os"
	"strings"
)

// Via https://flaviocopes.com/go-list-files/
func scanFolder(dirname string) ([]os.FileInfo, error) {

	f, err := os.Open(dirname)
	if err != nil {
		return nil, err
	}

	files, err := f.Readdir(-1)
	f.Close()
	if err != nil {
		return nil, err
	}

	return files, nil
}

// manifestSlices reads slice names from the first column of a manifest file,
// skipping blank lines and comments.
func manifestSlices(manifest string) ([]string, error) {
	f, err := os.Open(manifest)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		out = append(out, strings.SplitN(line, "\t", 2)[0])
	}

	return out, scanner.Err()
}
