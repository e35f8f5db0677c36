package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Veraticus/mission-control/internal/model"
)

// ErrAssetNotFound is returned when the countdown snippet is missing.
var ErrAssetNotFound = errors.New("asset not found")

// LoadAsset reads a static HTML snippet to embed verbatim.
func LoadAsset(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return "", fmt.Errorf("failed to read asset %s: %w", path, err)
	}
	return string(data), nil
}

func assetNotice(path string, err error) model.Notice {
	return model.Notice{
		Level:   model.LevelWarning,
		Kind:    model.KindAsset,
		Source:  path,
		Message: "countdown unavailable: " + err.Error(),
	}
}
