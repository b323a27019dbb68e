package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Run("classifies flags options and arguments", func(t *testing.T) {
		parsed := Tokenize("grep -r --include=*.py 'foo' src")

		assert.Equal(t, "grep", parsed.BaseCommand)
		assert.Equal(t, []string{"-r"}, parsed.Flags)
		assert.Equal(t, []Option{{Key: "--include", Value: "*.py"}}, parsed.Options)
		assert.Equal(t, []string{"foo", "src"}, parsed.Arguments)
		assert.Empty(t, parsed.Redirections)
	})

	t.Run("dash token followed by value becomes an option pair", func(t *testing.T) {
		parsed := Tokenize("tar -xzf archive.tar.gz")

		assert.Equal(t, "tar", parsed.BaseCommand)
		assert.Equal(t, []Option{{Key: "-xzf", Value: "archive.tar.gz"}}, parsed.Options)
		assert.Empty(t, parsed.Flags)
	})

	t.Run("trailing dash token becomes a flag", func(t *testing.T) {
		parsed := Tokenize("ls -la")

		assert.Equal(t, "ls", parsed.BaseCommand)
		assert.Equal(t, []string{"-la"}, parsed.Flags)
	})

	t.Run("quoted arguments keep their spaces", func(t *testing.T) {
		parsed := Tokenize(`echo "hello world"`)

		assert.Equal(t, []string{"hello world"}, parsed.Arguments)
	})

	t.Run("redirection consumes the following token", func(t *testing.T) {
		parsed := Tokenize("cat input.txt > output.txt 2> errors.log")

		assert.Equal(t, "cat", parsed.BaseCommand)
		assert.Equal(t, []string{"input.txt"}, parsed.Arguments)
		assert.Equal(t, []Redirection{
			{Operator: ">", Target: "output.txt"},
			{Operator: "2>", Target: "errors.log"},
		}, parsed.Redirections)
	})

	t.Run("trailing redirection has an empty target", func(t *testing.T) {
		parsed := Tokenize("sort data.txt >")

		assert.Equal(t, []Redirection{{Operator: ">", Target: ""}}, parsed.Redirections)
	})

	t.Run("unbalanced quotes fall back to whitespace splitting", func(t *testing.T) {
		parsed := Tokenize(`echo "unterminated`)

		assert.Equal(t, "echo", parsed.BaseCommand)
		assert.Equal(t, []string{`"unterminated`}, parsed.Arguments)
	})

	t.Run("empty input", func(t *testing.T) {
		parsed := Tokenize("")

		assert.Equal(t, "", parsed.BaseCommand)
		assert.Empty(t, parsed.Arguments)
	})
}

func TestParsedCommandAccessors(t *testing.T) {
	parsed := Tokenize("docker run -d --name=web -p 8080:80 nginx")

	assert.True(t, parsed.Flag("-d"))
	assert.False(t, parsed.Flag("-q"))

	name, ok := parsed.Option("--name")
	assert.True(t, ok)
	assert.Equal(t, "web", name)

	port, ok := parsed.Option("-p")
	assert.True(t, ok)
	assert.Equal(t, "8080:80", port)

	_, ok = parsed.Option("--missing")
	assert.False(t, ok)
}
