package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newBuildsDir lays out a minimal problem-builds directory.
func newBuildsDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "languages", "cpp"), 0o755))
	write("problems/TwoSum/description.md", "# Two Sum\n\nFind *two* numbers.\n")
	write("problems/TwoSum/metadata.json", `{"title": "Two Sum", "difficulty": "Easy", "tags": ["array", "hash table"], "leetcodeId": 1}`)
	write("problems/TwoSum/cpp/solution.cpp", "class Solution {};\n")
	write("problems/TwoSum/cpp/solution.md", "Use a hash map.\n")
	write("problems/AddTwoNumbers/cpp/solution.cpp", "")
	write("problems/AddTwoNumbers/metadata.json", "{not json")
	return root
}

func TestResolveBuildsDir(t *testing.T) {
	dir := t.TempDir()
	pathsFile := filepath.Join(dir, DefaultPathsFile)

	_, err := ResolveBuildsDir(pathsFile)
	require.ErrorIs(t, err, ErrConfigurationMissing)

	require.NoError(t, os.WriteFile(pathsFile, []byte("  \n"), 0o644))
	_, err = ResolveBuildsDir(pathsFile)
	require.ErrorIs(t, err, ErrConfigurationMissing)

	written, err := WriteBuildsDir(pathsFile, dir)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(written))

	got, err := ResolveBuildsDir(pathsFile)
	require.NoError(t, err)
	require.Equal(t, written, got)
}

func TestResolveBuildsDir_RelativeEntry(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(DefaultPathsFile, []byte("problem_builds\n"), 0o644))

	got, err := ResolveBuildsDir(DefaultPathsFile)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))

	want, err := filepath.Abs("problem_builds")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLayout(t *testing.T) {
	l := Layout{Root: "/b"}
	require.Equal(t, filepath.Join("/b", "problems", "TwoSum", "cpp", "solution.cpp"), l.SolutionFile("TwoSum", "cpp"))
	require.Equal(t, filepath.Join("/b", "problems", "TwoSum", "testcases", "_custom_testcase.test"), l.CustomTestcaseFile("TwoSum"))
	require.Equal(t, filepath.Join("/b", "results_validation_schema.json"), l.SchemaFile())
	require.Equal(t, filepath.Join("/b", "problems", "TwoSum", "t3_failed.txt"), l.FailedDumpFile("TwoSum", "t3"))
}

func TestOpen(t *testing.T) {
	c, err := Open(newBuildsDir(t))
	require.NoError(t, err)
	require.Equal(t, []string{"AddTwoNumbers", "TwoSum"}, c.Problems)
	require.Equal(t, []string{"cpp"}, c.Languages)
	require.True(t, c.Has("TwoSum"))
	require.False(t, c.Has("ThreeSum"))
}

func TestOpen_MissingDirectories(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrConfigurationMissing)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "problems"), 0o755))
	_, err = Open(root)
	require.ErrorIs(t, err, ErrConfigurationMissing)
	require.Contains(t, err.Error(), "languages")
}

func TestDescription(t *testing.T) {
	c, err := Open(newBuildsDir(t))
	require.NoError(t, err)

	html, err := c.Description("TwoSum")
	require.NoError(t, err)
	require.Contains(t, html, "<h1>Two Sum</h1>")
	require.Contains(t, html, "<em>two</em>")

	html, err = c.Description("AddTwoNumbers")
	require.NoError(t, err)
	require.Contains(t, html, "File does not exist")

	_, err = c.Description("ThreeSum")
	require.ErrorIs(t, err, ErrUnknownProblem)
}

func TestMetadata(t *testing.T) {
	c, err := Open(newBuildsDir(t))
	require.NoError(t, err)

	meta, err := c.Metadata("TwoSum")
	require.NoError(t, err)
	require.Equal(t, "Two Sum", meta.Title)
	require.Equal(t, "Easy", meta.Difficulty)
	require.Equal(t, []string{"array", "hash table"}, meta.Tags)
	require.Equal(t, 1, meta.Extra["leetcodeId"])

	meta, err = c.Metadata("AddTwoNumbers")
	require.NoError(t, err)
	require.Empty(t, meta.Title)
}

func TestWriteSolution(t *testing.T) {
	c, err := Open(newBuildsDir(t))
	require.NoError(t, err)

	changed, err := c.WriteSolution("TwoSum", "cpp", "class Solution {};\n")
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = c.WriteSolution("TwoSum", "cpp", "class Solution { int x; };\n")
	require.NoError(t, err)
	require.True(t, changed)

	code, err := c.ReadSolution("TwoSum", "cpp")
	require.NoError(t, err)
	require.Equal(t, "class Solution { int x; };\n", code)
}

func TestWriteCustomTestcase(t *testing.T) {
	c, err := Open(newBuildsDir(t))
	require.NoError(t, err)

	path, err := c.WriteCustomTestcase("TwoSum", "[2,7,11,15]\n9")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[2,7,11,15]\n9\n*", string(data))
}
