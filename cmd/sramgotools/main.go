package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/randomouscrap98/sramgotools/n64"
)

const (
	AppVersion = "0.2.0"
	StdStream  = "-"
)

// Shared bits of output for anything that produced a save
func saveResult(infile string, outfile string, analysis *n64.SaveAnalysis) map[string]interface{} {
	result := make(map[string]interface{})
	result["Infile"] = infile
	result["Outfile"] = outfile
	result["Length"] = analysis.Length
	result["MD5"] = analysis.MD5
	result["NonZero"] = analysis.NonZero
	result["NonZeroPercent"] = analysis.NonZeroPercent
	result["Empty"] = analysis.Empty
	result["Game"] = analysis.Game
	return result
}

func logAnalysis(subject string, analysis *n64.SaveAnalysis) {
	if analysis.Empty {
		log.Printf("WARNING: %s - Save data appears to be empty (all zeros), might be a blank/new save\n", subject)
	} else {
		log.Printf("%s - Save data contains %.1f%% non-zero bytes\n", subject, analysis.NonZeroPercent)
	}
	if analysis.Game != "" {
		log.Printf("%s - Detected: %s\n", subject, analysis.Game)
	}
}

// **********************************
// *       CONVERT COMMANDS         *
// **********************************

type ConvertCmd struct {
	Infile  string `arg:"" help:"The 128KB reader dump (.ram/.fla), or - for stdin"`
	Outfile string `arg:"" optional:"" help:"Where to write the 32KB save, or - for stdout (default: infile with the output extension)"`
}

func (c *ConvertCmd) Run(config *n64.Config, detector *n64.Detector) error {
	if c.Outfile == "" {
		if c.Infile == StdStream {
			c.Outfile = StdStream
		} else {
			c.Outfile = n64.DefaultOutputPath(c.Infile, config.OutputExtension)
		}
	}
	// Streams can't use the regular file conversion, but they go through the
	// same validation
	if c.Infile == StdStream || c.Outfile == StdStream {
		var save []byte
		var err error
		if c.Infile == StdStream {
			save, err = n64.ReadDump(os.Stdin)
		} else {
			save, err = n64.ReadDumpFile(c.Infile)
		}
		fatalIfErr(c.Infile, "read dump", err)
		analysis := n64.AnalyzeSave(save, detector)
		logAnalysis(c.Infile, &analysis)
		if c.Outfile == StdStream {
			err = n64.WriteSave(os.Stdout, save)
			fatalIfErr("stdout", "write save", err)
			log.Printf("Wrote %d bytes to stdout\n", len(save))
			return nil
		}
		err = n64.WriteFileAtomic(c.Outfile, save)
		fatalIfErr(c.Outfile, "write save", err)
		PrintJson(saveResult(c.Infile, c.Outfile, &analysis))
		return nil
	}
	result, err := n64.ConvertFile(c.Infile, c.Outfile, detector)
	fatalIfErr(c.Infile, "convert dump", err)
	logAnalysis(c.Infile, &result.Analysis)
	PrintJson(saveResult(result.Infile, result.Outfile, &result.Analysis))
	return nil
}

type InspectCmd struct {
	Infile string `arg:"" help:"The 128KB reader dump to look at"`
}

func (c *InspectCmd) Run(detector *n64.Detector) error {
	save, err := n64.ReadDumpFile(c.Infile)
	fatalIfErr(c.Infile, "read dump", err)
	analysis := n64.AnalyzeSave(save, detector)
	logAnalysis(c.Infile, &analysis)
	result := saveResult(c.Infile, "", &analysis)
	delete(result, "Outfile")
	result["DumpLength"] = n64.ReaderDumpSize
	PrintJson(result)
	return nil
}

type PadCmd struct {
	Infile  string `arg:"" help:"The 32KB save to lay back out as a reader dump"`
	Outfile string `arg:"" optional:"" help:"Where to write the 128KB dump (default: infile with .ram)"`
	Fill    uint8  `default:"255" help:"Byte value used for the unused part of the dump"`
}

func (c *PadCmd) Run() error {
	if c.Outfile == "" {
		c.Outfile = n64.DefaultOutputPath(c.Infile, n64.DefaultDumpExtension)
	}
	result, err := n64.PadFile(c.Infile, c.Outfile, c.Fill)
	fatalIfErr(c.Infile, "pad save", err)
	output := saveResult(result.Infile, result.Outfile, &result.Analysis)
	output["DumpLength"] = n64.ReaderDumpSize
	output["Fill"] = c.Fill
	PrintJson(output)
	return nil
}

// **********************************
// *        OTHER COMMANDS          *
// **********************************

type GamesCmd struct {
}

func (c *GamesCmd) Run(detector *n64.Detector) error {
	signatures := make([]map[string]interface{}, 0, len(detector.Signatures))
	for _, sig := range detector.Signatures {
		signatures = append(signatures, map[string]interface{}{
			"Title":  sig.Title,
			"Marker": hex.EncodeToString(sig.Marker),
		})
	}
	result := make(map[string]interface{})
	result["Games"] = n64.KnownGames
	result["Signatures"] = signatures
	result["ScanLength"] = detector.ScanLength
	PrintJson(result)
	return nil
}

type ScriptCmd struct {
	Infile    string   `arg:"" type:"existingfile" help:"Lua script to run"`
	Arguments []string `arg:"" optional:"" help:"Arguments passed to the script (see arguments())"`
	Dir       string   `type:"path" short:"d" help:"Folder relative paths in the script are based on"`
}

func (c *ScriptCmd) Run(config *n64.Config) error {
	script, err := os.ReadFile(c.Infile)
	fatalIfErr(c.Infile, "read script", err)
	logs, err := n64.RunLuaScript(string(script), c.Arguments, c.Dir, config)
	fmt.Print(logs)
	fatalIfErr(c.Infile, "run script", err)
	return nil
}

// **********************************
// *    ALL TOGETHER COMMANDS       *
// **********************************

type Cli struct {
	Convert ConvertCmd `cmd:"" help:"Extract the 32KB SRAM save from a 128KB reader dump for the flashcart"`
	Inspect InspectCmd `cmd:"" help:"Check a reader dump and report on its save without writing anything"`
	Pad     PadCmd     `cmd:"" help:"Lay a 32KB save back out in the 128KB reader dump format"`
	Games   GamesCmd   `cmd:"" help:"List SRAM games known to work and the signatures used to detect them"`
	Script  ScriptCmd  `cmd:"" help:"Run a lua script (for converting many dumps at once)"`

	Version kong.VersionFlag `help:"Show version information"`
	Config  string           `type:"existingfile" help:"TOML config file (output extension, extra game signatures)"`
	Quiet   bool             `short:"q" help:"Don't log progress to stderr"`
}

var cli Cli

func kongOptions() []kong.Option {
	return []kong.Option{
		kong.Name("sramgotools"),
		kong.ShortUsageOnError(),
		kong.Description("Convert N64 SRAM dumps from the DreamDumper64 reader into SummerCart 64 saves. " +
			"Only SRAM (32KB) games are supported; EEPROM and FlashRAM dumps are rejected."),
		kong.Vars{
			"version": AppVersion,
		},
	}
}

func loadConfig(path string) (*n64.Config, *n64.Detector) {
	config := n64.DefaultConfig()
	var err error
	if path != "" {
		config, err = n64.LoadConfig(path)
		fatalIfErr(path, "load config", err)
		log.Printf("Loaded config %s (%d extra signatures)\n", path, len(config.Signatures))
	}
	detector, err := config.Detector()
	fatalIfErr("config", "build game detector", err)
	return config, detector
}

func main() {
	ctx := kong.Parse(&cli, kongOptions()...)
	setQuiet(cli.Quiet)
	config, detector := loadConfig(cli.Config)
	err := ctx.Run(config, detector)
	ctx.FatalIfErrorf(err)
}
