package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePrefix = "trefila/internal/modules/"

// walkImports calls fn for every import of every non-test Go file under root.
func walkImports(t *testing.T, root string, fn func(file, importPath string)) {
	t.Helper()
	fset := token.NewFileSet()
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		for _, imp := range node.Imports {
			fn(filepath.ToSlash(path), strings.Trim(imp.Path.Value, `"`))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
}

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "modules"), func(file, importPath string) {
		module := moduleName(file)
		layer := detectLayer(file)
		if module == "" || layer == "" || !strings.Contains(importPath, modulePrefix) {
			return
		}
		if violatesLayerRule(module, layer, importPath) {
			t.Errorf("forbidden import in %s (%s): %s", file, layer, importPath)
		}
	})
}

// The scheduler core stays pure: standard library plus the error sentinels
// and the root finder.
func TestDrawingDomainIsPure(t *testing.T) {
	t.Parallel()
	allowed := map[string]bool{
		"trefila/internal/platform/errors":   true,
		"trefila/internal/platform/rootfind": true,
	}
	walkImports(t, filepath.Join("..", "modules", "drawing", "domain"), func(file, importPath string) {
		if !strings.Contains(importPath, ".") && !strings.HasPrefix(importPath, "trefila/") {
			return
		}
		if !allowed[importPath] {
			t.Errorf("%s imports %s", file, importPath)
		}
	})
}

// Views talk to modules through dto types and their own narrow ports.
func TestUIImportsOnlyDTOs(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "ui"), func(file, importPath string) {
		if !strings.HasPrefix(importPath, modulePrefix) {
			return
		}
		if !isDTO(importPath) {
			t.Errorf("%s imports %s", file, importPath)
		}
	})
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func isPortIn(path string) bool {
	return strings.Contains(path, "/port/in/") || strings.HasSuffix(path, "/port/in")
}

func isDTO(path string) bool {
	return strings.Contains(path, "/dto/") || strings.HasSuffix(path, "/dto")
}

func isDomain(path string) bool {
	return strings.HasSuffix(path, "/domain")
}

func violatesLayerRule(module, layer, importPath string) bool {
	sameModule := strings.Contains(importPath, "/internal/modules/"+module+"/")
	if !sameModule {
		if strings.Contains(importPath, "/service/") || strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") {
			return true
		}
		if isPortIn(importPath) || isDTO(importPath) || isDomain(importPath) {
			return layer == "dto" || layer == "port/in" && !isDTO(importPath)
		}
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/")
	case "domain":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") || strings.Contains(importPath, "/service/")
	default:
		return false
	}
}

func TestViolatesLayerRule(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module, layer, importPath string
		want                      bool
	}{
		{"recipe", "usecase", modulePrefix + "drawing/port/in", false},
		{"recipe", "service", modulePrefix + "drawing/domain", false},
		{"recipe", "usecase", modulePrefix + "drawing/service", true},
		{"recipe", "adapter/in", modulePrefix + "recipe/service", true},
		{"recipe", "dto", modulePrefix + "drawing/domain", true},
		{"drawing", "service", modulePrefix + "drawing/adapter/out", true},
	}
	for _, tc := range cases {
		if got := violatesLayerRule(tc.module, tc.layer, tc.importPath); got != tc.want {
			t.Errorf("violatesLayerRule(%s, %s, %s) = %v, want %v", tc.module, tc.layer, tc.importPath, got, tc.want)
		}
	}
}
