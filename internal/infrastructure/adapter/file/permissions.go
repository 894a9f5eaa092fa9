package file

import (
	"file-explorer/internal/domain/entity"

	"go.uber.org/zap"
)

// ShowPermissions returns the nine permission bits of path.
func (fm *LocalFileManager) ShowPermissions(path string) (entity.PermissionSet, error) {
	info, err := fm.fs.Stat(path)
	if err != nil {
		return 0, entity.WrapFSError("perms", path, err)
	}
	return entity.PermissionsFromMode(info.Mode()), nil
}

// ChangePermissions applies a numeric octal mode such as "755" or "0644" to path
// and returns the bits read back afterwards. The path is checked before the mode
// so a missing file reports NotFound regardless of the mode given.
func (fm *LocalFileManager) ChangePermissions(path, spec string) (entity.PermissionSet, error) {
	if _, err := fm.fs.Stat(path); err != nil {
		return 0, entity.WrapFSError("chmod", path, err)
	}

	perms, err := entity.ParseOctal(spec)
	if err != nil {
		return 0, err
	}

	// The mode is set exactly, so setuid, setgid and sticky are cleared.
	if err := fm.fs.Chmod(path, perms.Mode()); err != nil {
		return 0, entity.WrapFSError("chmod", path, err)
	}

	applied, err := fm.ShowPermissions(path)
	if err != nil {
		return 0, err
	}
	fm.logger.Debug("changed permissions",
		zap.String("path", path), zap.String("mode", applied.Octal()))
	return applied, nil
}
