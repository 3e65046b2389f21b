//go:build e2e

package e2e_test

import (
	"archive/tar"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/rogpeppe/go-internal/testscript"
)

const archivePath = "/acme/schema/archive/refs/tags/v1.2.0.tar.gz"

var (
	typesyncBinary string
	archiveServer  *httptest.Server
)

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "typesync-e2e-*")
	if err != nil {
		panic(err)
	}

	typesyncBinary = filepath.Join(tmpDir, "typesync")

	//nolint:gosec // Building binary with static arguments, not user input
	cmd := exec.Command("go", "build", "-o", typesyncBinary, "./cmd/typesync")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		panic("failed to build typesync binary: " + err.Error())
	}

	archive, err := buildArchive(map[string]string{
		"schema-1.2.0/README.md":           "schema\n",
		"schema-1.2.0/structs/hook.go":     "type Hook { id: int }\n",
		"schema-1.2.0/structs/repo.go":     "type Repo { name: string }\n",
		"schema-1.2.0/structs/nested/x.go": "ignored\n",
		"schema-1.2.0/internal/private.go": "private\n",
	})
	if err != nil {
		panic("failed to build archive: " + err.Error())
	}

	archiveServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != archivePath {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))

	exitCode := m.Run()

	archiveServer.Close()
	_ = os.RemoveAll(tmpDir)

	os.Exit(exitCode)
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: setupE2E,
	})
}

func setupE2E(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	env.Setenv("CI", "true")
	env.Setenv("TYPESYNC_BASE_URL", archiveServer.URL)

	binDir := filepath.Dir(typesyncBinary)
	currentPath := env.Getenv("PATH")
	env.Setenv("PATH", binDir+string(os.PathListSeparator)+currentPath)

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	return nil
}

func buildArchive(files map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, body := range files {
		err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(body)),
		})
		if err != nil {
			return nil, err
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
