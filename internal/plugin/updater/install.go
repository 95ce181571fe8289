package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"websql/internal/errors"
	"websql/internal/log"
)

// Install downloads and verifies up, then swaps it in for the running
// binary. The previous binary is kept as <exe>.old and restored if the swap
// fails. It returns the path of the installed executable.
func (u *Updater) Install(ctx context.Context, up *Update, r Reporter) (string, error) {
	data, err := u.Download(ctx, up, r)
	if err != nil {
		return "", err
	}

	exe, err := u.executable()
	if err != nil {
		return "", fmt.Errorf("%w: locate executable: %v", errors.ErrInstallFailed, err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if r != nil {
		r.SetStatus("Installing " + up.Version)
	}

	if err := replaceFile(exe, data); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInstallFailed, err)
	}
	u.logger.Info("update installed", log.String("version", up.Version), log.String("path", exe))
	return exe, nil
}

func replaceFile(path string, data []byte) error {
	mode := os.FileMode(0755)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	staged := path + ".new"
	backup := path + ".old"

	if err := os.WriteFile(staged, data, mode); err != nil {
		return err
	}
	_ = os.Remove(backup)
	if err := os.Rename(path, backup); err != nil {
		os.Remove(staged)
		return err
	}
	if err := os.Rename(staged, path); err != nil {
		if rerr := os.Rename(backup, path); rerr != nil {
			return fmt.Errorf("%v (restore failed: %v)", err, rerr)
		}
		os.Remove(staged)
		return err
	}
	return nil
}
