package stage

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind says how a stub entry is staged.
type Kind int

const (
	// KindDir copies a whole directory, overwriting same-named files.
	KindDir Kind = iota
	// KindFile copies a single file the CMS owns outright.
	KindFile
	// KindHostFile copies a single file that replaces a host-owned original,
	// which is backed up first when backups are enabled.
	KindHostFile
)

// Mapping describes one stub source and where it lands in the host.
// Source uses forward slashes (it is a path inside the stub filesystem);
// Destination is relative to the host base path.
type Mapping struct {
	Source      string
	Destination string
	Kind        Kind
}

// IsDir reports whether the mapping copies a directory.
func (m Mapping) IsDir() bool {
	return m.Kind == KindDir
}

// DefaultMappings returns the fixed table of files and directories staged
// into the host application.
func DefaultMappings() []Mapping {
	return []Mapping{
		// App
		{"app/Http/Controllers/Cms", "app/Http/Controllers/Cms", KindDir},
		{"app/Http/Requests/Cms", "app/Http/Requests/Cms", KindDir},
		{"app/Policies", "app/Policies", KindDir},
		{"app/Services/Cms", "app/Services/Cms", KindDir},
		{"app/Facades", "app/Facades", KindDir},
		{"app/Models/User.php", "app/Models/User.php", KindHostFile},
		{"app/Models/Post.php", "app/Models/Post.php", KindHostFile},
		{"app/Models/Role.php", "app/Models/Role.php", KindFile},
		{"app/Providers/AppServiceProvider.php", "app/Providers/AppServiceProvider.php", KindHostFile},
		{"app/Providers/FlashMessageServiceProvider.php", "app/Providers/FlashMessageServiceProvider.php", KindFile},
		{"app/View/Components/CmsLayout.php", "app/View/Components/CmsLayout.php", KindFile},

		// Bootstrap and config
		{"bootstrap/app.php", "bootstrap/app.php", KindHostFile},
		{"config/cms.php", "config/cms.php", KindFile},

		// Database
		{"database", "database", KindDir},

		// Resources
		{"resources/js/cms.js", "resources/js/cms.js", KindFile},
		{"resources/scss/cms.scss", "resources/scss/cms.scss", KindFile},
		{"resources/scss/cms-bootstrap.scss", "resources/scss/cms-bootstrap.scss", KindFile},
		{"resources/scss/cms-layout.scss", "resources/scss/cms-layout.scss", KindFile},
		{"resources/views/cms", "resources/views/cms", KindDir},
		{"resources/views/components/cms", "resources/views/components/cms", KindDir},
		{"resources/views/layouts/cms", "resources/views/layouts/cms", KindDir},
		{"resources/views/layouts/cms.blade.php", "resources/views/layouts/cms.blade.php", KindFile},

		// Routes
		{"routes/cms.php", "routes/cms.php", KindFile},
	}
}

// backupTrees are host directories copied once to <dir><suffix> before the
// stager writes into them.
//
//nolint:gochecknoglobals // Fixed table.
var backupTrees = []string{"database", "routes"}

// backupFiles are host files edited in place later in the run; they are
// copied once to <file><suffix> before any edit.
//
//nolint:gochecknoglobals // Fixed table.
var backupFiles = []string{ViteConfigFile, PackageJSONFile}

// Host files edited in place.
const (
	ViteConfigFile  = "vite.config.js"
	PackageJSONFile = "package.json"
	WebRoutesFile   = "routes/web.php"
)

// Vite entry replacement.
const (
	viteSearch  = "'resources/js/app.js'"
	viteReplace = "'resources/js/app.js', 'resources/js/cms.js'"
	viteCMSJS   = "'resources/js/cms.js'"
)

// RouteInclude is appended to routes/web.php.
const RouteInclude = "require __DIR__.'/cms.php';"

// VerifyStubs checks that every mapping source exists in fsys with the kind
// the mapping expects. All problems are reported together.
func VerifyStubs(fsys fs.FS, mappings []Mapping) error {
	var errs []error
	for _, m := range mappings {
		info, err := fs.Stat(fsys, m.Source)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingStub, m.Source))
		case info.IsDir() != m.IsDir():
			errs = append(errs, fmt.Errorf("%w: %s has the wrong kind", ErrMissingStub, m.Source))
		}
	}
	return errors.Join(errs...)
}
