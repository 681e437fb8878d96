package segmask

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSONConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{
  "manifest": "",
  "mask_path": "/data/masks",
  "mask_suffix": ".mask.png",
  "pred_path": "/data/preds",
  "pred_suffix": ".f32",
  "image_size": 256,
  "labels": {
    "Background": {"id": 0, "color": "#000000"},
    "Liver": {"id": 1, "color": "#FF0000"}
  }
}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := ParseJSONConfigFromPath(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.ImageSize != 256 {
		t.Fatalf("image size: got %d, want 256", config.ImageSize)
	}
	if config.MaskPath != "/data/masks" || config.PredPath != "/data/preds" {
		t.Fatalf("paths not parsed: %+v", config)
	}

	// Colors are normalized to lower case
	if got := config.Labels["Liver"].Color; got != "#ff0000" {
		t.Fatalf("liver color: got %s, want #ff0000", got)
	}
}

func TestParseJSONConfigDefaultsLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"image_size": 128}`), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := ParseJSONConfigFromPath(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(config.Labels) != 6 {
		t.Fatalf("got %d default labels, want 6", len(config.Labels))
	}
}
