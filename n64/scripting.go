package n64

// Lua scripting for converting lots of dumps at once.

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	lua "github.com/yuin/gopher-lua"
)

// General tracking for an entire lua script
type ScriptState struct {
	FileDirectory string
	Arguments     []string
	Config        *Config
	Detector      *Detector
	Logs          strings.Builder
}

// Get full path to given file requested by user. The system has a way to set
// the "working directory" for the whole script, that's all
func (state *ScriptState) FilePath(path string) string {
	if state.FileDirectory == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(state.FileDirectory, path)
}

// Add a function to the given lua state that actually tracks with our own state.
// Usually lua functions don't accept extra go parameters
func (state *ScriptState) AddFunction(name string, f func(*lua.LState, *ScriptState) int, L *lua.LState) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int { return f(L, state) }))
}

func luaArguments(L *lua.LState, state *ScriptState) int {
	for _, a := range state.Arguments {
		L.Push(lua.LString(a))
	}
	return len(state.Arguments)
}

func luaLog(L *lua.LState, state *ScriptState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	line := strings.Join(parts, "\t")
	log.Printf("[script] %s\n", line)
	state.Logs.WriteString(line)
	state.Logs.WriteString("\n")
	return 0
}

func luaDefaultOutput(L *lua.LState, state *ScriptState) int {
	path := L.CheckString(1)
	L.Push(lua.LString(DefaultOutputPath(path, state.Config.OutputExtension)))
	return 1
}

// convert(input [, output]): converts a dump exactly like the convert command.
// Output paths are NOT resolved against the script directory when derived
// from the input, since the input already was
func luaConvert(L *lua.LState, state *ScriptState) int {
	input := state.FilePath(L.CheckString(1))
	output := L.OptString(2, "")
	if output == "" {
		output = DefaultOutputPath(input, state.Config.OutputExtension)
	} else {
		output = state.FilePath(output)
	}
	result, err := ConvertFile(input, output, state.Detector)
	if err != nil {
		L.RaiseError("Couldn't convert %s: %s", input, err)
		return 0
	}
	table := L.NewTable()
	table.RawSetString("infile", lua.LString(result.Infile))
	table.RawSetString("outfile", lua.LString(result.Outfile))
	table.RawSetString("length", lua.LNumber(result.Analysis.Length))
	table.RawSetString("md5", lua.LString(result.Analysis.MD5))
	table.RawSetString("game", lua.LString(result.Analysis.Game))
	table.RawSetString("empty", lua.LBool(result.Analysis.Empty))
	L.Push(table)
	return 1
}

// analyze(path): look at a dump without writing anything. Wrong sizes are not
// an error here, they just come back as valid = false
func luaAnalyze(L *lua.LState, state *ScriptState) int {
	path := state.FilePath(L.CheckString(1))
	table := L.NewTable()
	save, err := ReadDumpFile(path)
	var serr *SizeError
	if errors.As(err, &serr) {
		table.RawSetString("size", lua.LNumber(serr.Size))
		table.RawSetString("valid", lua.LFalse)
		L.Push(table)
		return 1
	} else if err != nil {
		L.RaiseError("Couldn't analyze %s: %s", path, err)
		return 0
	}
	analysis := AnalyzeSave(save, state.Detector)
	table.RawSetString("size", lua.LNumber(ReaderDumpSize))
	table.RawSetString("valid", lua.LTrue)
	table.RawSetString("md5", lua.LString(analysis.MD5))
	table.RawSetString("nonzero", lua.LNumber(analysis.NonZero))
	table.RawSetString("percent", lua.LNumber(analysis.NonZeroPercent))
	table.RawSetString("empty", lua.LBool(analysis.Empty))
	table.RawSetString("game", lua.LString(analysis.Game))
	L.Push(table)
	return 1
}

// Get basic info about the entries in a directory, in "filesystem" order
func luaListDir(L *lua.LState, state *ScriptState) int {
	path := state.FilePath(L.CheckString(1))
	entries, err := os.ReadDir(path)
	if err != nil {
		L.RaiseError("Couldn't read directory: %s", err)
		return 0
	}
	result := L.NewTable()
	for _, entry := range entries {
		entrytable := L.NewTable()
		entrytable.RawSetString("name", lua.LString(entry.Name()))
		entrytable.RawSetString("path", lua.LString(filepath.Join(path, entry.Name())))
		entrytable.RawSetString("is_directory", lua.LBool(entry.IsDir()))
		result.Append(entrytable)
	}
	L.Push(result)
	return 1
}

func luaHex(L *lua.LState) int {
	decoded, err := hex.DecodeString(L.CheckString(1))
	if err != nil {
		L.RaiseError("Error decoding hex in lua script: %s", err)
		return 0
	}
	L.Push(lua.LString(string(decoded)))
	return 1
}

func luaJson(L *lua.LState) int {
	var value interface{}
	if err := json.Unmarshal([]byte(L.CheckString(1)), &value); err != nil {
		L.RaiseError("Couldn't parse json: %s", err)
		return 0
	}
	L.Push(luaDecodeValue(L, value))
	return 1
}

func luaToml(L *lua.LState) int {
	tree, err := toml.Load(L.CheckString(1))
	if err != nil {
		L.RaiseError("Couldn't parse toml: %s", err)
		return 0
	}
	L.Push(luaDecodeValue(L, tree.ToMap()))
	return 1
}

// Converts whatever json or toml decoded into a lua value. Anything we don't
// know about turns into nil
func luaDecodeValue(L *lua.LState, value interface{}) lua.LValue {
	switch converted := value.(type) {
	case bool:
		return lua.LBool(converted)
	case float64:
		return lua.LNumber(converted)
	case int64: // toml gives ints, json never does
		return lua.LNumber(converted)
	case string:
		return lua.LString(converted)
	case []interface{}:
		arr := L.CreateTable(len(converted), 0)
		for _, item := range converted {
			arr.Append(luaDecodeValue(L, item))
		}
		return arr
	case []map[string]interface{}: // toml arrays of tables
		arr := L.CreateTable(len(converted), 0)
		for _, item := range converted {
			arr.Append(luaDecodeValue(L, item))
		}
		return arr
	case map[string]interface{}:
		tbl := L.CreateTable(0, len(converted))
		for key, item := range converted {
			tbl.RawSetString(key, luaDecodeValue(L, item))
		}
		return tbl
	}
	return lua.LNil
}

// Run the given lua script. Returns everything the script logged with log(). A
// nil config means the defaults
func RunLuaScript(script string, arguments []string, dir string, config *Config) (string, error) {
	if config == nil {
		config = DefaultConfig()
	}
	detector, err := config.Detector()
	if err != nil {
		return "", err
	}
	state := ScriptState{
		FileDirectory: dir,
		Arguments:     arguments,
		Config:        config,
		Detector:      detector,
	}

	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("hex", L.NewFunction(luaHex))
	L.SetGlobal("json", L.NewFunction(luaJson))
	L.SetGlobal("toml", L.NewFunction(luaToml))
	L.SetGlobal("READER_DUMP_SIZE", lua.LNumber(ReaderDumpSize))
	L.SetGlobal("SRAM_SIZE", lua.LNumber(SramSize))
	state.AddFunction("arguments", luaArguments, L)
	state.AddFunction("log", luaLog, L)
	state.AddFunction("convert", luaConvert, L)
	state.AddFunction("analyze", luaAnalyze, L)
	state.AddFunction("default_output", luaDefaultOutput, L)
	state.AddFunction("listdir", luaListDir, L)

	if err := L.DoString(script); err != nil {
		return state.Logs.String(), fmt.Errorf("script failed: %w", err)
	}
	return state.Logs.String(), nil
}
