package domain

import "path/filepath"

// Well-known file system locations. Everything qrun writes lives under a
// single dot directory next to the config file so a run leaves exactly one
// artifact behind.
const (
	// QrunDirName is the directory qrun keeps its state in.
	QrunDirName = ".qrun"

	// ConfigFileName is the name of the config file qrun discovers.
	ConfigFileName = "qrun.yaml"

	// HistoryFileName is the file run outcomes are appended to.
	HistoryFileName = "history.json"
)

// File system permissions for artifacts qrun creates.
const (
	// DirPerm is the permission for directories.
	DirPerm = 0o750

	// FilePerm is the permission for files.
	FilePerm = 0o644
)

// HistoryPath returns the path of the run history file under root.
func HistoryPath(root string) string {
	return filepath.Join(root, QrunDirName, HistoryFileName)
}
