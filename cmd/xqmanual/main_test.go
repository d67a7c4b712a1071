package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/codec"
	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/testutil"
)

// --- Pure parsing function tests ---

func TestSplitArgsLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"simple args", "a b c", []string{"a", "b", "c"}},
		{"double quoted string", `"hello world" foo`, []string{"hello world", "foo"}},
		{"single quoted string", `'hello world' foo`, []string{"hello world", "foo"}},
		{"mixed quotes", `"hello world" 'foo bar' baz`, []string{"hello world", "foo bar", "baz"}},
		{"empty string", "", nil},
		{"tabs as separators", "a\tb\tc", []string{"a", "b", "c"}},
		{"multiple spaces", "a   b   c", []string{"a", "b", "c"}},
		{"quoted chinese path", `-o "对局 一.pgn_zh"`, []string{"-o", "对局 一.pgn_zh"}},
		{"empty quotes", `-layout ""`, []string{"-layout", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitArgsLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitArgsLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestLoadArgsFile(t *testing.T) {
	t.Run("valid file with args comments and empty lines", func(t *testing.T) {
		dir := t.TempDir()
		argsFile := filepath.Join(dir, "args.txt")
		content := `# conversion settings
-f pgn_iccs
-outdir "converted games"

# duplicates
-D
`
		if err := os.WriteFile(argsFile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := loadArgsFile(argsFile)
		if err != nil {
			t.Fatalf("loadArgsFile() error = %v", err)
		}
		want := []string{"-f", "pgn_iccs", "-outdir", "converted games", "-D"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("loadArgsFile() = %v, want %v", got, want)
		}
	})

	t.Run("non-existent file returns error", func(t *testing.T) {
		if _, err := loadArgsFile("/nonexistent/path/args.txt"); err == nil {
			t.Error("loadArgsFile() expected error for non-existent file, got nil")
		}
	})
}

func TestLoadArgsFromFileIfSpecified(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	if err := os.WriteFile(argsFile, []byte("-f json\n-v 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"xqmanual", "-A", argsFile, "game.xqf"}

	if err := loadArgsFromFileIfSpecified(); err != nil {
		t.Fatalf("loadArgsFromFileIfSpecified() error = %v", err)
	}
	want := []string{"xqmanual", "-f", "json", "-v", "0", "game.xqf"}
	if !reflect.DeepEqual(os.Args, want) {
		t.Errorf("os.Args = %v, want %v", os.Args, want)
	}
}

func TestLoadFileList(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(list, []byte("a.xqf\n\n# skipped\n  b.bin  \n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := loadFileList(list)
	if err != nil {
		t.Fatalf("loadFileList() error = %v", err)
	}
	if want := []string{"a.xqf", "b.bin"}; !reflect.DeepEqual(got, want) {
		t.Errorf("loadFileList() = %v, want %v", got, want)
	}
}

func TestSplitOutputPath(t *testing.T) {
	got := splitOutputPath(filepath.Join("in", "game.xqf"), "", 2, codec.FormatJSON)
	if want := filepath.Join("in", "game_2.json"); got != want {
		t.Errorf("splitOutputPath() = %q, want %q", got, want)
	}
	got = splitOutputPath("game.xqf", "out", 1, codec.FormatCC)
	if want := filepath.Join("out", "game_1.pgn_cc"); got != want {
		t.Errorf("splitOutputPath() = %q, want %q", got, want)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		output  string
		want    codec.Format
		wantErr bool
	}{
		{"explicit format wins", "bin", "out.json", codec.FormatBIN, false},
		{"from output extension", "", "out.xqf", codec.FormatXQF, false},
		{"default chinese text", "", "", codec.FormatZh, false},
		{"unknown format", "pgn", "", 0, true},
		{"unknown extension", "", "out.txt", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer saveRestoreString(outputFile, tt.output)()
			cfg := config.NewConfigBuilder().WithOutputFormat(tt.format).Build()

			got, err := resolveFormat(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("resolveFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- End-to-end runs ---

// quietRun runs the tool with logging off and returns the exit code and
// both streams.
func quietRun(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	defer saveRestoreInt(verbosity, 0)()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeSample(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := codec.WriteFile(path, testutil.SampleManual(t)); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestRunConvertToStdout(t *testing.T) {
	in := writeSample(t, t.TempDir(), "sample.xqf")

	code, stdout, stderr := quietRun(t, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	testutil.AssertContains(t, stdout, `[TITLE "测试棋局"]`)
	testutil.AssertContains(t, stdout, "炮二平五")
}

func TestRunConvertToFile(t *testing.T) {
	dir := t.TempDir()
	in := writeSample(t, dir, "sample.json")
	out := filepath.Join(dir, "sample.pgn_iccs")
	defer saveRestoreString(outputFile, out)()

	code, _, stderr := quietRun(t, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	got, err := codec.ReadFile(out)
	testutil.AssertNoError(t, err)
	testutil.AssertSameTree(t, got, testutil.SampleManual(t))
}

func TestRunBatchWithDuplicates(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	first := writeSample(t, dir, "first.bin")
	second := writeSample(t, dir, "second.xqf")
	defer saveRestoreString(outputDir, outDir)()
	defer saveRestoreString(outputFormat, "pgn_cc")()
	defer saveRestoreBool(suppressDuplicates, true)()
	defer saveRestoreInt(workers, 1)()

	code, _, stderr := quietRun(t, first, second)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, "first.pgn_cc")); err != nil {
		t.Errorf("first output missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "second.pgn_cc")); !os.IsNotExist(err) {
		t.Errorf("duplicate should not be written, stat error %v", err)
	}
}

func TestRunInfo(t *testing.T) {
	in := writeSample(t, t.TempDir(), "sample.pgn_zh")
	defer saveRestoreBool(infoMode, true)()

	code, stdout, stderr := quietRun(t, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	testutil.AssertContains(t, stdout, `"moves": 6`)
	testutil.AssertContains(t, stdout, `"TITLE": "测试棋局"`)
}

func TestRunValidate(t *testing.T) {
	in := writeSample(t, t.TempDir(), "sample.bin")
	defer saveRestoreBool(validateMode, true)()

	code, stdout, _ := quietRun(t, in)
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}
	testutil.AssertContains(t, stdout, in+": ok")
}

func TestRunSplit(t *testing.T) {
	dir := t.TempDir()
	in := writeSample(t, dir, "sample.xqf")
	defer saveRestoreBool(splitMode, true)()
	defer saveRestoreString(outputFormat, "pgn_iccs")()

	code, _, stderr := quietRun(t, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	for i := 1; i <= 3; i++ {
		path := filepath.Join(dir, "sample_"+string(rune('0'+i))+".pgn_iccs")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("line %d: %v", i, err)
		}
	}
}

func TestRunErrors(t *testing.T) {
	t.Run("no inputs", func(t *testing.T) {
		code, _, stderr := quietRun(t)
		if code != 2 || !strings.Contains(stderr, "no input files") {
			t.Errorf("code = %d, stderr = %q", code, stderr)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		code, _, stderr := quietRun(t, filepath.Join(t.TempDir(), "none.xqf"))
		if code != 1 || stderr == "" {
			t.Errorf("code = %d, stderr = %q", code, stderr)
		}
	})

	t.Run("bad layout", func(t *testing.T) {
		defer saveRestoreString(layout, "sideways")()
		code, _, _ := quietRun(t, "game.xqf")
		if code != 2 {
			t.Errorf("code = %d, want 2", code)
		}
	})

	t.Run("output file with many inputs", func(t *testing.T) {
		dir := t.TempDir()
		a := writeSample(t, dir, "a.bin")
		b := writeSample(t, dir, "b.bin")
		defer saveRestoreString(outputFile, filepath.Join(dir, "out.json"))()
		code, _, stderr := quietRun(t, a, b)
		if code != 2 || !strings.Contains(stderr, "-outdir") {
			t.Errorf("code = %d, stderr = %q", code, stderr)
		}
	})
}

func TestSetupFilter(t *testing.T) {
	t.Run("no criteria", func(t *testing.T) {
		filter, err := setupFilter()
		if err != nil || filter != nil {
			t.Errorf("setupFilter() = %v, %v; want nil, nil", filter, err)
		}
	})

	t.Run("player and ply bound", func(t *testing.T) {
		defer saveRestoreString(playerFilter, "红方")()
		defer saveRestoreInt(maxPly, 2)()
		filter, err := setupFilter()
		if err != nil || filter == nil {
			t.Fatalf("setupFilter() = %v, %v", filter, err)
		}
		if filter.Match(testutil.SampleManual(t)) {
			t.Error("three plies should exceed -maxply 2")
		}
	})

	t.Run("bad FEN", func(t *testing.T) {
		defer saveRestoreString(fenFilter, "not a position")()
		if _, err := setupFilter(); err == nil {
			t.Error("setupFilter() expected error for bad FEN")
		}
	})
}

func TestRunBatchWithFilter(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	in := writeSample(t, dir, "sample.bin")
	defer saveRestoreString(outputDir, outDir)()
	defer saveRestoreString(redFilter, "胡荣华")()

	code, _, stderr := quietRun(t, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, "sample.pgn_zh")); !os.IsNotExist(err) {
		t.Errorf("filtered manual should not be written, stat error %v", err)
	}
}

func TestRunConvertToStdoutFiltered(t *testing.T) {
	in := writeSample(t, t.TempDir(), "sample.bin")
	defer saveRestoreString(redFilter, "胡荣华")()

	code, stdout, stderr := quietRun(t, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("filtered manual should not be written, got %q", stdout)
	}
}

func TestRunFetchWithoutStore(t *testing.T) {
	t.Setenv("XQMANUAL_STORE_MONGO_URI", "")
	defer saveRestoreString(fetchID, "0b6f1c2e")()

	code, stdout, stderr := quietRun(t)
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if stdout != "" || !strings.Contains(stderr, "-fetch needs store.mongo_uri") {
		t.Errorf("stdout %q, stderr %q", stdout, stderr)
	}
}
