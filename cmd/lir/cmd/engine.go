package cmd

import (
	"fmt"
	"os"

	"github.com/lir-lang/lir/internal/cache"
	"github.com/lir-lang/lir/internal/config"
	pkglir "github.com/lir-lang/lir/pkg/lir"
)

// buildEngine resolves the session Config and cache Store from the
// persistent --config/--cache/--no-cache flags and constructs an Engine,
// mirroring how dwscript's run/compile commands each built their own
// lexer/parser/analyzer pipeline from shared package-level flag state.
func buildEngine() (*pkglir.Engine, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	opts := []pkglir.Option{pkglir.WithConfig(cfg)}

	if !noCache {
		store, err := resolveCache()
		if err != nil {
			return nil, err
		}
		opts = append(opts, pkglir.WithCache(store))
	}

	return pkglir.New(opts...)
}

func resolveConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("lir: getting working directory: %w", err)
	}
	found, err := config.FindConfig(wd)
	if err != nil {
		return nil, err
	}
	if found == "" {
		return config.Default(), nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "using config: %s\n", found)
	}
	return config.LoadConfig(found)
}

func resolveCache() (*cache.Store, error) {
	if cachePath != "" {
		return cache.Open(cachePath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("lir: getting working directory: %w", err)
	}
	return cache.Open(cache.DefaultPath(wd))
}

func exampleProgram(name string) (pkglir.Program, error) {
	for _, prog := range pkglir.Examples() {
		if prog.Name == name {
			return prog, nil
		}
	}
	return pkglir.Program{}, fmt.Errorf("lir: no such example program: %s (see 'lir run --list')", name)
}

func listExampleNames() []string {
	examples := pkglir.Examples()
	names := make([]string, len(examples))
	for i, prog := range examples {
		names[i] = prog.Name
	}
	return names
}
