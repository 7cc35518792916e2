package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestUserID1   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestTenantID  = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestTenantID2 = uuid.MustParse("00000000-0000-0000-0000-000000000011")
)

// TestSampleID is the sha256 of an empty file, a convenient stable sample id.
const TestSampleID = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// WriteFile creates dir/name with content and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
