package main

// Generates a fake reader dump for testing: the save area is very obvious data
// (constantly increasing values), the rest is padding.

import (
	"fmt"
	"os"
	"strconv"

	"github.com/randomouscrap98/sramgotools/n64"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 4 {
		fmt.Println("Usage: go run main.go <filename> [length] [fill]")
		fmt.Printf("  length defaults to %d (a full reader dump), fill defaults to %d\n",
			n64.ReaderDumpSize, n64.DefaultFill)
		os.Exit(1)
	}

	length := n64.ReaderDumpSize
	fill := n64.DefaultFill
	var err error
	if len(os.Args) > 2 {
		length, err = strconv.Atoi(os.Args[2])
		if err != nil || length < 0 {
			fmt.Println("Error: can't parse length: ", os.Args[2])
			os.Exit(1)
		}
	}
	if len(os.Args) > 3 {
		fill, err = strconv.Atoi(os.Args[3])
		if err != nil || fill < 0 || fill > 255 {
			fmt.Println("Error: fill must be 0-255: ", os.Args[3])
			os.Exit(1)
		}
	}

	data := make([]byte, length)
	for i := range data {
		if i < n64.SramSize {
			data[i] = uint8(i & 0xFF)
		} else {
			data[i] = uint8(fill)
		}
	}

	filename := os.Args[1]
	err = os.WriteFile(filename, data, 0644)
	if err != nil {
		fmt.Println("Error writing file: ", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d bytes to %s\n", length, filename)
}
