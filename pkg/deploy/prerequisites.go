package deploy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CheckSystem fails on platforms the CLU binary is not built for.
func CheckSystem(goos string) error {
	switch goos {
	case "linux", "darwin":
		return nil
	default:
		return fmt.Errorf("Unsupported system %s", goos)
	}
}

// CheckWorkDir fails unless dir holds a library/ directory.
func CheckWorkDir(dir string) error {
	info, err := os.Stat(filepath.Join(dir, "library"))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("The current working directory does not look like a repo/release folder. " +
			"This is determined by the presence of the library/ directory")
	}
	return nil
}

// ManifestPath checks that manifest is a relative path that exists under
// workDir and splits it into its directory and file name.
func ManifestPath(workDir, manifest string) (dir, file string, err error) {
	if filepath.IsAbs(manifest) {
		return "", "", fmt.Errorf("The manifest path %s provided in the arguments is not relative.", manifest)
	}
	if _, err := os.Stat(filepath.Join(workDir, manifest)); err != nil {
		return "", "", fmt.Errorf("The relative path %s does not exist in the repo/release folder root %s", manifest, workDir)
	}
	return filepath.Dir(manifest), filepath.Base(manifest), nil
}

// CopyResources copies workDir/resourceRoot into tempDir/resourceRoot and
// returns the destination.
func CopyResources(workDir, tempDir, resourceRoot string) (string, error) {
	src := filepath.Join(workDir, resourceRoot)
	dst := filepath.Join(tempDir, resourceRoot)
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
	if err != nil {
		return "", fmt.Errorf("copy resources: %w", err)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
