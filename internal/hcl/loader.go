package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/ComNetsHH/FlowEmu/internal/config"
	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/ComNetsHH/FlowEmu/internal/fsutil"
	"github.com/ComNetsHH/FlowEmu/internal/schema"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Extension is the file extension of configuration files.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{validate: validator.New(validator.WithRequiredStructEnabled())}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file under paths and merges it over base.
func (l *Loader) Load(ctx context.Context, base *config.Model, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := cloneOrNew(base)
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.apply(ctx, model, hclFile, file); err != nil {
			return nil, err
		}
	}
	return l.finish(ctx, model)
}

// LoadFS parses every .hcl file in fsys, in lexical order, and merges it over base.
func (l *Loader) LoadFS(ctx context.Context, base *config.Model, fsys fs.FS) (*config.Model, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == Extension {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list configuration files: %w", err)
	}
	sort.Strings(files)

	model := cloneOrNew(base)
	parser := hclparse.NewParser()
	for _, file := range files {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.apply(ctx, model, hclFile, file); err != nil {
			return nil, err
		}
	}
	return l.finish(ctx, model)
}

// apply decodes one parsed file and merges its blocks into model.
func (l *Loader) apply(ctx context.Context, model *config.Model, file *hcl.File, name string) error {
	var root schema.File
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}
	if err := translateSettings(model, &root); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, g := range root.Groups {
		group, err := translateGroup(g)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		model.Merge(group)
	}
	ctxlog.FromContext(ctx).Debug("Applied HCL file.", "file", name, "groups", len(root.Groups))
	return nil
}

func (l *Loader) finish(ctx context.Context, model *config.Model) (*config.Model, error) {
	if err := l.Validate(model); err != nil {
		return nil, err
	}
	templates := 0
	for _, g := range model.Groups {
		templates += len(g.Templates)
	}
	ctxlog.FromContext(ctx).Debug("HCL loading complete.", "groups", len(model.Groups), "templates", templates)
	return model, nil
}

// findAllHCLFiles expands paths into a flat, de-duplicated list of .hcl files.
// Files inside a directory are taken in lexical order.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", p, err)
		}
		if !info.IsDir() {
			if filepath.Ext(p) == Extension {
				add(p)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(p, Extension)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}

func cloneOrNew(base *config.Model) *config.Model {
	if base == nil {
		return config.NewModel()
	}
	out := *base
	out.Groups = make([]*config.Group, 0, len(base.Groups))
	for _, g := range base.Groups {
		cg := *g
		cg.Templates = append([]*config.Template(nil), g.Templates...)
		out.Groups = append(out.Groups, &cg)
	}
	return &out
}
