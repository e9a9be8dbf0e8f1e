// Package shaders resolves the displacement program's source texts and
// checks them against the uniforms the host will upload.
package shaders

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

//go:embed glsl/cube.vert glsl/cube.frag
var bundled embed.FS

const (
	EmbedScheme     = "embed:"
	DefaultVertex   = EmbedScheme + "cube.vert"
	DefaultFragment = EmbedScheme + "cube.frag"
)

var (
	ErrMissingUniform = errors.New("uniform not declared")
	ErrUniformType    = errors.New("uniform declared with wrong type")
)

// Sources is a vertex/fragment pair ready to compile.
type Sources struct {
	Vertex   string
	Fragment string
}

// Fetch resolves both refs concurrently and returns once both have loaded
// or either has failed. A ref is "embed:<name>" for a bundled file, an
// http(s) URL, or a local path.
func Fetch(ctx context.Context, vertexRef, fragmentRef string) (Sources, error) {
	var src Sources
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := Load(ctx, vertexRef)
		if err != nil {
			return fmt.Errorf("vertex shader: %w", err)
		}
		src.Vertex = text
		return nil
	})
	g.Go(func() error {
		text, err := Load(ctx, fragmentRef)
		if err != nil {
			return fmt.Errorf("fragment shader: %w", err)
		}
		src.Fragment = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return Sources{}, err
	}
	return src, nil
}

// Load resolves a single ref.
func Load(ctx context.Context, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, EmbedScheme):
		data, err := bundled.ReadFile("glsl/" + strings.TrimPrefix(ref, EmbedScheme))
		if err != nil {
			return "", fmt.Errorf("bundled %q: %w", ref, err)
		}
		return string(data), nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return fetchURL(ctx, ref)
	default:
		data, err := os.ReadFile(ref)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func fetchURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	return string(data), nil
}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	uniformDecl  = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[[^\]]*\])?\s*;`)
)

// Declarations returns the uniform name to GLSL type map declared in src.
// Comments are ignored.
func Declarations(src string) map[string]string {
	src = blockComment.ReplaceAllString(src, "")
	src = lineComment.ReplaceAllString(src, "")
	decls := make(map[string]string)
	for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
		decls[m[2]] = m[1]
	}
	return decls
}

// CheckUniforms verifies that every name in want is declared in either
// stage with the given GLSL type. All problems are reported together.
func CheckUniforms(src Sources, want map[string]string) error {
	have := Declarations(src.Vertex)
	for name, typ := range Declarations(src.Fragment) {
		have[name] = typ
	}

	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		got, ok := have[name]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s %s: %w", want[name], name, ErrMissingUniform))
		case got != want[name]:
			errs = append(errs, fmt.Errorf("%s: want %s, got %s: %w", name, want[name], got, ErrUniformType))
		}
	}
	return errors.Join(errs...)
}
