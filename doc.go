// Package textile converts Textile markup to HTML.
//
// # Quick Start
//
//	conv, err := textile.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, textile.Input{
//	    Text: "h1. Hello\n\nA *bold* word.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
//
// ToHTML does the same in one call for scripts and tests.
//
// # Conversion
//
// Every Convert call works on a fresh document:
//
//  1. Front matter (YAML or TOML) is split off into ConvertResult.Meta
//  2. Block structure is parsed (paragraphs, headings, quotes, code, notes)
//  3. Inline markup is rendered (links, images, tables, lists, phrases, glyphs)
//  4. Restricted output is optionally filtered through an allow-list
//  5. Standalone output is wrapped in a styled HTML page
//
// Ambiguous markup never fails; it is emitted as text. Errors are limited
// to invalid options, empty input and malformed front matter.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := textile.NewConverter(
//	    textile.WithDialect(textile.DialectHTML5),
//	    textile.WithRestricted(true),
//	    textile.WithRel("nofollow"),
//	    textile.WithStandalone("plain"),
//	)
//
// # Untrusted Input
//
// WithRestricted escapes raw HTML, ignores class, id and style shorthand
// and only links http, https, ftp and mailto URLs. Add WithSanitize to
// filter the result through an element allow-list as well.
//
// # Concurrency
//
// A Converter is safe for concurrent use. ConverterPool bounds how many
// conversions run at once for batch work:
//
//	pool, err := textile.NewConverterPool(textile.ResolvePoolSize(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Release(conv)
//
// # Error Handling
//
// Errors are wrapped sentinels checkable with errors.Is:
//
//	_, err := textile.NewConverter(textile.WithDialect("sgml"))
//	if errors.Is(err, textile.ErrUnknownDialect) {
//	    // fix the configuration
//	}
package textile
