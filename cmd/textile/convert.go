package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	textile "github.com/alnah/go-textile"
	"github.com/alnah/go-textile/internal/config"
	"github.com/alnah/go-textile/internal/hints"
)

// stdinPath selects standard input, or standard output with --output.
const stdinPath = "-"

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Environ(), env.Stderr)

	// Load configuration
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg := config.DefaultConfig()
	if configName != "" {
		var err error
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// CLI wins over env, env wins over the config file.
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Textile.Sanitize && !cfg.Textile.Restricted {
		fmt.Fprintf(env.Stderr, "warning: sanitize has no effect%s\n", hints.ForSanitizeWithoutRestricted())
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	inputPath := resolveInputPath(positionalArgs, cfg)
	if inputPath == "" || inputPath == stdinPath {
		return convertStream(ctx, env.Stdin, env.Stdout, opts)
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	if outputDir == stdinPath {
		return convertFileToStream(ctx, inputPath, env.Stdout, opts)
	}

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no textile files found in %s", ErrNoInput, inputPath)
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := textile.ResolvePoolSize(workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	pool, err := textile.NewConverterPool(poolSize, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	results := convertBatch(ctx, &poolAdapter{pool: pool}, files)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// convertStream converts all of r and writes the result to w.
func convertStream(ctx context.Context, r io.Reader, w io.Writer, opts []textile.Option) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: standard input is empty", ErrNoInput)
	}

	conv, err := textile.NewConverter(opts...)
	if err != nil {
		return err
	}
	res, err := conv.Convert(ctx, textile.Input{Text: string(data)})
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, res.HTML); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !strings.HasSuffix(res.HTML, "\n") {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	return nil
}

// convertFileToStream converts a single file to w.
func convertFileToStream(ctx context.Context, path string, w io.Writer, opts []textile.Option) error {
	if err := validateTextileExtension(path); err != nil {
		return err
	}
	f, err := os.Open(path) // #nosec G304 -- user-supplied input path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	defer func() { _ = f.Close() }()
	return convertStream(ctx, f, w, opts)
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Textile flags
	if flags.textile.dialect != "" {
		cfg.Textile.Dialect = flags.textile.dialect
	}
	if flags.textile.restricted {
		cfg.Textile.Restricted = true
	}
	if flags.textile.lite {
		cfg.Textile.Lite = true
	}
	if flags.textile.noBlockTags {
		cfg.Textile.NoBlockTags = true
	}
	if flags.textile.rel != "" {
		cfg.Textile.Rel = flags.textile.rel
	}
	if flags.textile.linkPrefix != "" {
		cfg.Textile.LinkPrefix = flags.textile.linkPrefix
	}
	if flags.textile.maxSpanDepth != 0 {
		cfg.Textile.MaxSpanDepth = flags.textile.maxSpanDepth
	}
	if flags.textile.sanitize {
		cfg.Textile.Sanitize = true
	}
	if len(flags.textile.allowedTags) > 0 {
		cfg.Textile.AllowedTags = flags.textile.allowedTags
	}

	// Image flags
	if flags.images.disabled {
		cfg.Images.Disabled = true
	}
	if flags.images.sizes {
		cfg.Images.Sizes = true
	}
	if flags.images.timeout != "" {
		cfg.Images.Timeout = flags.images.timeout
	}

	// Page flags
	if flags.page.standalone {
		cfg.Page.Standalone = true
	}
	if flags.page.style != "" {
		cfg.Page.Style = flags.page.style
	}
	if flags.page.lang != "" {
		cfg.Page.Lang = flags.page.lang
	}
	if flags.page.highlight != "" {
		cfg.Page.Highlight = flags.page.highlight
	}

	// Asset flags
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// buildOptions translates a validated config into converter options.
func buildOptions(cfg *config.Config) ([]textile.Option, error) {
	timeout, err := cfg.Images.ProbeTimeout()
	if err != nil {
		return nil, err
	}

	t := cfg.Textile
	opts := []textile.Option{
		textile.WithRestricted(t.Restricted),
		textile.WithLite(t.Lite),
		textile.WithBlockTags(!t.NoBlockTags),
		textile.WithRel(t.Rel),
		textile.WithLinkPrefix(t.LinkPrefix),
		textile.WithMaxSpanDepth(t.MaxSpanDepth),
		textile.WithSanitize(t.Sanitize),
		textile.WithImages(!cfg.Images.Disabled),
		textile.WithImageSizes(cfg.Images.Sizes),
		textile.WithHighlight(cfg.Page.Highlight),
		textile.WithAssetPath(cfg.Assets.BasePath),
	}
	if t.Dialect != "" {
		opts = append(opts, textile.WithDialect(textile.Dialect(strings.ToLower(t.Dialect))))
	}
	if len(t.AllowedTags) > 0 {
		opts = append(opts, textile.WithAllowedTags(t.AllowedTags...))
	}
	if timeout > 0 {
		opts = append(opts, textile.WithImageProbeTimeout(timeout))
	}
	if cfg.Page.Standalone {
		opts = append(opts, textile.WithStandalone(cfg.Page.Style), textile.WithLang(cfg.Page.Lang))
	}
	return opts, nil
}

// resolveInputPath picks the positional argument, else the configured
// default directory. Empty means standard input.
func resolveInputPath(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Input.DefaultDir
}

// resolveOutputDir picks the --output flag, else the configured directory.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
