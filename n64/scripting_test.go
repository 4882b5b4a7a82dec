package n64

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunLuaScript_Arguments(t *testing.T) {
	script := `
a, b, c = arguments()
log(a, b, c)
  `

	arguments := []string{"what", "how", "this -- is == weird"}

	logs, err := RunLuaScript(script, arguments, "", nil)
	if err != nil {
		t.Fatalf("Error running basic script: %s", err)
	}

	expected := "what\thow\tthis -- is == weird\n"
	if logs != expected {
		t.Fatalf("Expected logs '%s', got '%s'", expected, logs)
	}
}

func TestRunLuaScript_Constants(t *testing.T) {
	logs, err := RunLuaScript(`log(READER_DUMP_SIZE, SRAM_SIZE)`, nil, "", nil)
	if err != nil {
		t.Fatalf("Error running script: %s", err)
	}
	if logs != "131072\t32768\n" {
		t.Fatalf("Wrong constants: '%s'", logs)
	}
}

func TestRunLuaScript_ConvertFolder(t *testing.T) {
	dir := t.TempDir()
	zelda := make([]byte, SramSize)
	copy(zelda, "ZELDAZ")
	writeTestFile(dir, "a.ram", makeDump(zelda, fillBytes(PaddingSize, 0xFF)), t)
	writeTestFile(dir, "b.ram", makeDump(sequentialSave(), fillBytes(PaddingSize, 0xFF)), t)
	writeTestFile(dir, "c.ram", make([]byte, SramSize), t) // Not a dump
	writeTestFile(dir, "notes.txt", []byte("hi"), t)

	script := `
local entries = listdir(".")
table.sort(entries, function(x, y) return x.name < y.name end)
for _, e in ipairs(entries) do
  if string.sub(e.name, -4) == ".ram" then
    local info = analyze(e.name)
    if info.valid then
      local r = convert(e.name)
      log(e.name, r.length, r.game, r.empty)
    else
      log(e.name, "skipped", info.size)
    end
  end
end
`
	logs, err := RunLuaScript(script, nil, dir, nil)
	if err != nil {
		t.Fatalf("Error running convert script: %s", err)
	}
	expected := strings.Join([]string{
		"a.ram\t32768\tThe Legend of Zelda: Ocarina of Time\tfalse",
		"b.ram\t32768\t\tfalse",
		"c.ram\tskipped\t32768",
		"",
	}, "\n")
	if logs != expected {
		t.Fatalf("Expected logs:\n%s\ngot:\n%s", expected, logs)
	}

	save, err := os.ReadFile(filepath.Join(dir, "b.sav"))
	if err != nil {
		t.Fatalf("Converted save missing: %s", err)
	}
	if !bytes.Equal(save, sequentialSave()) {
		t.Fatalf("Script wrote the wrong save")
	}
	if _, err := os.Stat(filepath.Join(dir, "c.sav")); !os.IsNotExist(err) {
		t.Fatalf("Skipped dump should have no save")
	}
}

func TestRunLuaScript_ConvertExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(dir, "in.ram", make([]byte, ReaderDumpSize), t)
	config := DefaultConfig()
	config.OutputExtension = ".srm"
	logs, err := RunLuaScript(`
local r = convert("in.ram", "custom.bin")
log(r.empty, r.md5 == "`+Md5String(make([]byte, SramSize))+`")
log(default_output("in.ram"))
`, nil, dir, config)
	if err != nil {
		t.Fatalf("Error running script: %s", err)
	}
	if logs != "true\ttrue\nin.srm\n" {
		t.Fatalf("Unexpected logs: '%s'", logs)
	}
	if _, err := os.Stat(filepath.Join(dir, "custom.bin")); err != nil {
		t.Fatalf("Explicit output missing: %s", err)
	}
}

func TestRunLuaScript_ConvertError(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(dir, "small.ram", make([]byte, 10), t)
	logs, err := RunLuaScript(`
log("before")
convert("small.ram")
log("after")
`, nil, dir, nil)
	if err == nil {
		t.Fatalf("Expected script to fail converting a bad dump")
	}
	if logs != "before\n" {
		t.Fatalf("Expected only the first log, got '%s'", logs)
	}
	if _, err := os.Stat(filepath.Join(dir, "small.sav")); !os.IsNotExist(err) {
		t.Fatalf("Failed conversion left a save behind")
	}
}

func TestRunLuaScript_Decoders(t *testing.T) {
	script := `
local j = json('{"name": "golf", "list": [1, 2, 3]}')
log(j.name, #j.list)
local t = toml('title = "zelda"\nsize = 32768')
log(t.title, t.size)
log(#hex("12345678"))
`
	logs, err := RunLuaScript(script, nil, "", nil)
	if err != nil {
		t.Fatalf("Error running decoder script: %s", err)
	}
	expected := "golf\t3\nzelda\t32768\n4\n"
	if logs != expected {
		t.Fatalf("Expected '%s', got '%s'", expected, logs)
	}
}

func TestRunLuaScript_BadConfig(t *testing.T) {
	config := DefaultConfig()
	config.Signatures = []SignatureConfig{{Title: "broken"}}
	if _, err := RunLuaScript(`log("hi")`, nil, "", config); err == nil {
		t.Fatalf("Expected bad config to fail the script")
	}
}
