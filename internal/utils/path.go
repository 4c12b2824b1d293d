package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver locates the catalog and config files relative to the binary,
// the working directory and the user config directory.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver inspects the running executable and the user's home.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "foodserve")
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "foodserve")
		}
	}
	return filepath.Join(homeDir, ".config", "foodserve")
}

// CatalogCandidates lists where a catalog named by path may live, most
// specific first.
func (pr *PathResolver) CatalogCandidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}

	var candidates []string
	base := filepath.Base(path)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, path), filepath.Join(cwd, "data", base))
	}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, path),
		filepath.Join(pr.executableDir, "data", base),
		filepath.Join(pr.configDir, base),
	)
	return candidates
}

// ResolveCatalog returns the first existing candidate for path. When none
// exists path is returned unchanged so the loader reports a useful error.
func (pr *PathResolver) ResolveCatalog(path string) string {
	for _, candidate := range pr.CatalogCandidates(path) {
		if FileExists(candidate) {
			log.Debugf("Found catalog at %s", candidate)
			return candidate
		}
		log.Debugf("Catalog candidate missing: %s", candidate)
	}
	return path
}
