package segmask

import (
	"encoding/json"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// JSONConfig describes where an evaluation dataset lives and how its classes
// are labeled.
type JSONConfig struct {
	ConfigPath   string
	ManifestPath string   `json:"manifest"`
	Labels       LabelMap `json:"labels"`
	MaskPath     string   `json:"mask_path"`
	MaskSuffix   string   `json:"mask_suffix"`
	PredPath     string   `json:"pred_path"`
	PredSuffix   string   `json:"pred_suffix"`
	ImageSize    int      `json:"image_size"`
}

// ParseJSONConfigFromPath reads and validates a JSONConfig file.
func ParseJSONConfigFromPath(path string) (JSONConfig, error) {
	out := JSONConfig{ConfigPath: path}

	f, err := os.Open(path)
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}

		return out, pfx.Err(err)
	}

	if len(out.Labels) == 0 {
		out.Labels = Organs()
	}

	// Internally, go uses lower case for all colors, so we will too (while
	// permitting the user to use mixed case)
	for k, v := range out.Labels {
		v.Color = strings.ToLower(out.Labels[k].Color)
		out.Labels[k] = v
	}

	// Interpret ~ if present
	out.ConfigPath = expandHomeDir(out.ConfigPath)
	out.ManifestPath = expandHomeDir(out.ManifestPath)
	out.MaskPath = expandHomeDir(out.MaskPath)
	out.PredPath = expandHomeDir(out.PredPath)

	return out, nil
}

// Via https://stackoverflow.com/a/17617721/199475
func expandHomeDir(path string) string {

	usr, err := user.Current()
	if err != nil {
		return path
	}

	dir := usr.HomeDir

	if path == "~" {
		// In case of "~", which won't be caught by the "else if"
		path = dir
	} else if strings.HasPrefix(path, "~/") {
		// Use strings.HasPrefix so we don't match paths like
		// "/something/~/something/"
		path = filepath.Join(dir, path[2:])
	}

	return path
}
