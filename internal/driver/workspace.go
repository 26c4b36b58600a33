package driver

import (
	"context"
	"fmt"

	"lavish/internal/diag"
	"lavish/internal/project"
	"lavish/internal/source"
)

// WorkspaceResult is a compiled workspace. Manifest is nil when no
// manifest could be loaded; the reason is then in Bag.
type WorkspaceResult struct {
	Manifest *project.Manifest
	*Result
}

// CompileWorkspace finds lavish.toml in dir or its parents, resolves the
// member globs and compiles all matched files as one unit. Manifest
// problems are PRJ5001 diagnostics and members that match nothing are
// PRJ5002; neither is returned as an error.
func CompileWorkspace(ctx context.Context, dir string, opts Options) (*WorkspaceResult, error) {
	bag := diag.NewBag(0)
	fail := func(msg string) *WorkspaceResult {
		reportOutside(bag, diag.ProjInvalidManifest, msg)
		bag.Sort()
		return &WorkspaceResult{Result: &Result{FileSet: source.NewFileSet(), Bag: bag}}
	}

	path, ok, err := project.FindManifest(dir)
	if err != nil {
		return fail(err.Error()), nil
	}
	if !ok {
		return fail(fmt.Sprintf("no %s found in %s or any parent directory", project.ManifestName, dir)), nil
	}
	manifest, err := project.LoadManifest(path)
	if err != nil {
		return fail(err.Error()), nil
	}
	opts.Logger.Debug().
		Str("workspace", manifest.Name).
		Str("manifest", manifest.Path).
		Strs("members", manifest.Members).
		Msg("workspace manifest loaded")

	files, unmatched, err := manifest.ResolveMembers()
	if err != nil {
		res := fail(fmt.Sprintf("%s: %v", manifest.Path, err))
		res.Manifest = manifest
		return res, nil
	}
	for _, member := range unmatched {
		reportOutside(bag, diag.ProjMemberNotFound,
			fmt.Sprintf("%s: workspace member %q matches no %s files", manifest.Path, member, project.SourceExt))
	}

	res, err := compilePaths(ctx, files, bag, opts)
	if res == nil {
		return nil, err
	}
	return &WorkspaceResult{Manifest: manifest, Result: res}, err
}
