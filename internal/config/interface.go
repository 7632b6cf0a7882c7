package config

import (
	"context"
	"io/fs"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files and directories,
	// translates it into the format-agnostic model and merges it over base.
	// Later paths override earlier ones. A nil base starts from NewModel.
	Load(ctx context.Context, base *Model, paths ...string) (*Model, error)

	// LoadFS does the same for every configuration file in fsys, in lexical
	// order. It is used for the embedded built-in library.
	LoadFS(ctx context.Context, base *Model, fsys fs.FS) (*Model, error)
}
