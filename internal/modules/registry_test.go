package modules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/modules"
	"github.com/naab-lang/naab/internal/value"
)

type stubStdlib struct {
	name string
	env  *value.Environment
}

func (s *stubStdlib) Name() string { return s.name }
func (s *stubStdlib) Build() (*value.Environment, error) { return s.env, nil }

type stubBlocks struct {
	blocks map[string]*value.Block
}

func (s *stubBlocks) Resolve(id string) (*value.Block, error) {
	if b, ok := s.blocks[id]; ok {
		return b, nil
	}
	return nil, &errtax.Error{Kind: errtax.KindModuleNotFound, Message: "no such block"}
}

func TestRegistry_StdlibResolution(t *testing.T) {
	env := value.NewEnvironment()
	env.Define("pi", value.Float(3.14))

	r := modules.New(t.TempDir(), nil, nil, nil)
	if err := r.RegisterStdlib(&stubStdlib{name: "math", env: env}); err != nil {
		t.Fatalf("RegisterStdlib: %v", err)
	}

	got, err := r.Resolve("math")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	v, ok := got.Get("pi")
	if !ok || v != value.Float(3.14) {
		t.Fatalf("expected pi=3.14, got %v (ok=%v)", v, ok)
	}
}

func TestRegistry_StdlibRegisteredTwiceErrors(t *testing.T) {
	r := modules.New(t.TempDir(), nil, nil, nil)
	env := value.NewEnvironment()
	if err := r.RegisterStdlib(&stubStdlib{name: "io", env: env}); err != nil {
		t.Fatalf("first RegisterStdlib: %v", err)
	}
	if err := r.RegisterStdlib(&stubStdlib{name: "io", env: env}); err == nil {
		t.Fatal("expected an error registering 'io' twice")
	}
}

func TestRegistry_BlockIdentifierDelegatesToBlockResolver(t *testing.T) {
	blk := &value.Block{ID: "BLOCK-PY-00001", Language: "python", Code: "1 + 1"}
	r := modules.New(t.TempDir(), nil, &stubBlocks{blocks: map[string]*value.Block{blk.ID: blk}}, nil)

	got, err := r.Resolve("BLOCK-PY-00001")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	v, ok := got.Get("BLOCK_PY_00001")
	if !ok {
		t.Fatalf("expected the block bound under its sanitized name, got names=%v", got.Names())
	}
	if _, ok := v.(*value.Block); !ok {
		t.Fatalf("expected a *value.Block, got %T", v)
	}
}

func TestRegistry_UnknownBlockIdentifierErrors(t *testing.T) {
	r := modules.New(t.TempDir(), nil, &stubBlocks{blocks: map[string]*value.Block{}}, nil)
	_, err := r.Resolve("BLOCK-PY-99999")
	if err == nil {
		t.Fatal("expected an error for an unregistered block id")
	}
}

func TestRegistry_FilePathLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	src := `
function double(n: int) -> int {
	return n * 2
}
`
	if err := os.WriteFile(filepath.Join(dir, "helpers.naab"), []byte(src), 0o644); err != nil {
		t.Fatalf("write module file: %v", err)
	}

	r := modules.New(dir, nil, nil, nil)
	env1, err := r.Resolve("helpers")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := env1.Get("double"); !ok {
		t.Fatalf("expected 'double' exported, got names=%v", env1.Names())
	}

	env2, err := r.Resolve("helpers")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if env1 != env2 {
		t.Fatal("expected the cached environment to be reused across resolves")
	}
}

func TestRegistry_FilePathNotFound(t *testing.T) {
	r := modules.New(t.TempDir(), nil, nil, nil)
	_, err := r.Resolve("does.not.exist")
	if err == nil {
		t.Fatal("expected a module-not-found error")
	}
	naabErr, ok := err.(*errtax.Error)
	if !ok || naabErr.Kind != errtax.KindModuleNotFound {
		t.Fatalf("expected KindModuleNotFound, got %v", err)
	}
}

func TestRegistry_CircularImportDetected(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.naab"), []byte(`use b`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.naab"), []byte(`use a`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := modules.New(dir, nil, nil, nil)
	_, err := r.Resolve("a")
	if err == nil {
		t.Fatal("expected a circular import error")
	}
	naabErr, ok := err.(*errtax.Error)
	if !ok || naabErr.Kind != errtax.KindCircularImport {
		t.Fatalf("expected KindCircularImport, got %v", err)
	}
}

func TestRegistry_SearchPathFallback(t *testing.T) {
	searchDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(searchDir, "shared.naab"), []byte(`function id(x: int) -> int { return x }`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := modules.New(t.TempDir(), []string{searchDir}, nil, nil)
	env, err := r.Resolve("shared")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := env.Get("id"); !ok {
		t.Fatalf("expected 'id' exported, got names=%v", env.Names())
	}
}
