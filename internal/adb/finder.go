package adb

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// FindADB locates the adb executable. LDPlayer ships its own adb next to
// ldconsole, so the install folder is tried first.
func FindADB(configured, ldPath string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
		return "", fmt.Errorf("configured adb %s not found", configured)
	}

	name := "adb"
	if runtime.GOOS == "windows" {
		name = "adb.exe"
	}

	var candidates []string
	if ldPath != "" {
		candidates = append(candidates, filepath.Join(ldPath, name))
	}

	if runtime.GOOS == "windows" {
		candidates = append(candidates,
			`C:\LDPlayer\LDPlayer9\adb.exe`,
			`C:\LDPlayer\LDPlayer4.0\adb.exe`,
			`C:\Android\sdk\platform-tools\adb.exe`,
			`${LOCALAPPDATA}\Android\Sdk\platform-tools\adb.exe`,
		)
	} else {
		candidates = append(candidates,
			"/usr/bin/adb",
			"/usr/local/bin/adb",
			"${HOME}/Android/Sdk/platform-tools/adb",
		)
	}
	candidates = append(candidates, name)

	for _, path := range candidates {
		expanded := os.ExpandEnv(path)

		if strings.ContainsAny(path, `/\`) {
			if _, err := os.Stat(expanded); err == nil {
				return expanded, nil
			}
			continue
		}

		// Bare name: search PATH
		if found, err := exec.LookPath(expanded); err == nil {
			return found, nil
		}
	}

	return "", fmt.Errorf("adb not found, please set adbPath in Settings.ini")
}
