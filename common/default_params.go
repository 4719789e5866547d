package common

import (
	"os"
	"os/user"
	"path/filepath"
)

func DefaultDataDir() string {
	home := HomeDir()
	if home != "" {
		return filepath.Join(home, ".gvote")
	}
	return ""
}

func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
