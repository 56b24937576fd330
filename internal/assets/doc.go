// Package assets provides the stylesheets and page shell used for standalone
// HTML output.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and the page shell (go:embed)
//	    ├── FilesystemLoader  - styles and shells from a directory on disk
//	    └── AssetResolver     - custom directory first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// Asset names are validated so they cannot escape the base directory, and
// FilesystemLoader resolves symlinks before checking containment.
package assets
