package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
)

// Looks up os.Stderr on every write, so swapping it out later still works
type stderrWriter struct{}

func (stderrWriter) Write(b []byte) (int, error) {
	return os.Stderr.Write(b)
}

// Fatal errors always get printed, even when progress logging is turned off
var fatalLog = log.New(stderrWriter{}, "", log.LstdFlags)

var exit = os.Exit

// Turn progress logging on or off. Errors are not affected
func setQuiet(quiet bool) {
	if quiet {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(stderrWriter{})
	}
}

// Most commands need this, so... yeah
func PrintJson(obj interface{}) {
	rawjson, err := json.MarshalIndent(obj, "", "  ")
	fatalIfErr("json", "serialize result", err)
	fmt.Println(string(rawjson))
}

// Quick way to fail on error, since most commands are "doing" something on
// behalf of something else.
func fatalIfErr(subject string, doing string, err error) {
	if err != nil {
		fatalLog.Printf("%s - Couldn't %s: %s", subject, doing, err)
		exit(1)
	}
}
