package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aicmd/internal/parse"
)

func TestSuggest(t *testing.T) {
	t.Run("typo correction comes first for a missing command", func(t *testing.T) {
		parsed := parse.Tokenize("lls -la")
		candidates := Suggest(parsed, parse.CategoryCommandNotFound)

		require.NotEmpty(t, candidates)
		assert.Equal(t, "ls", candidates[0])
	})

	t.Run("alternatives for a known missing command", func(t *testing.T) {
		parsed := parse.Tokenize("wget https://example.test/file")
		candidates := Suggest(parsed, parse.CategoryCommandNotFound)

		assert.Contains(t, candidates, "curl -O")
	})

	t.Run("unknown command yields nothing", func(t *testing.T) {
		parsed := parse.Tokenize("frobnicate --all")
		candidates := Suggest(parsed, parse.CategoryCommandNotFound)

		assert.Empty(t, candidates)
	})

	t.Run("permission denied proposes sudo and chmod", func(t *testing.T) {
		parsed := parse.Tokenize("./deploy.sh production")
		candidates := Suggest(parsed, parse.CategoryPermissionDenied)

		require.NotEmpty(t, candidates)
		assert.Equal(t, "sudo ./deploy.sh production", candidates[0])
		assert.Contains(t, candidates, "chmod +x production")
	})

	t.Run("file not found proposes creation and search", func(t *testing.T) {
		parsed := parse.Tokenize("cat notes.txt")
		candidates := Suggest(parsed, parse.CategoryFileNotFound)

		assert.Contains(t, candidates, "touch notes.txt")
		assert.Contains(t, candidates, "find . -name '*notes.txt*' -type f")
	})

	t.Run("directory-looking argument proposes mkdir", func(t *testing.T) {
		parsed := parse.Tokenize("ls reports")
		candidates := Suggest(parsed, parse.CategoryFileNotFound)

		assert.Contains(t, candidates, "mkdir -p reports")
	})

	t.Run("package not found proposes the manager's install command", func(t *testing.T) {
		parsed := parse.Tokenize("apt install htop ripgrep")
		candidates := Suggest(parsed, parse.CategoryPackageNotFound)

		assert.Contains(t, candidates, "sudo apt update && sudo apt install htop")
		assert.Contains(t, candidates, "sudo apt update && sudo apt install ripgrep")
		assert.NotContains(t, candidates, "sudo apt update && sudo apt install install")
	})

	t.Run("unhandled category yields nothing", func(t *testing.T) {
		parsed := parse.Tokenize("git push")
		candidates := Suggest(parsed, parse.CategoryNetworkError)

		assert.Empty(t, candidates)
	})

	t.Run("candidates are deduplicated", func(t *testing.T) {
		parsed := parse.Tokenize("cat data.txt data.txt")
		candidates := Suggest(parsed, parse.CategoryFileNotFound)

		seen := map[string]bool{}
		for _, candidate := range candidates {
			assert.False(t, seen[candidate], candidate)
			seen[candidate] = true
		}
	})
}
