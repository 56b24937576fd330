package textile

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyInput  = errors.New("textile content cannot be empty")
	ErrConversion  = errors.New("textile conversion failed")
	ErrFrontMatter = errors.New("invalid front matter")
	ErrPageRender  = errors.New("standalone page rendering failed")

	// Option validation errors.
	ErrUnknownDialect   = errors.New("unknown dialect")
	ErrInvalidSpanDepth = errors.New("invalid span depth")
	ErrInvalidTimeout   = errors.New("invalid image probe timeout")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
